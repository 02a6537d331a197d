package service

// Paginate 对有序序列做分页切片，窗口始终裁剪到 [0, total]，
// 越界页返回空切片而非报错
func Paginate[T any](items []T, page, pageSize int) []T {
	total := len(items)

	start := (page - 1) * pageSize
	if start < 0 {
		start = 0
	}
	if start > total {
		start = total
	}

	end := start + pageSize
	if end > total {
		end = total
	}

	return items[start:end]
}
