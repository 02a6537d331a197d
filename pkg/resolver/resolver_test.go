package resolver

import (
	"errors"
	"testing"

	"StockAtlas/pkg/model"
)

// ════════════════════════════════════════════════════════════════════
// Fakes
// ════════════════════════════════════════════════════════════════════

type fakeStockStore struct {
	stocks     map[string]*model.StockInfo
	all        []model.StockInfo
	failAll    bool
	upserted   []string
	getAllHits int
}

func (f *fakeStockStore) Upsert(stock *model.StockInfo) error {
	f.upserted = append(f.upserted, stock.StockCode)
	return nil
}

func (f *fakeStockStore) GetByCode(code string) (*model.StockInfo, error) {
	return f.stocks[code], nil
}

func (f *fakeStockStore) GetAll() ([]model.StockInfo, error) {
	f.getAllHits++
	if f.failAll {
		return nil, errors.New("db down")
	}
	return f.all, nil
}

type fakeDailyStore struct {
	series map[string][]model.StockDaily
	saved  [][]model.StockDaily
}

func (f *fakeDailyStore) SaveBatch(bars []model.StockDaily) error {
	f.saved = append(f.saved, bars)
	return nil
}

func (f *fakeDailyStore) GetByCode(code string) ([]model.StockDaily, error) {
	return f.series[code], nil
}

func (f *fakeDailyStore) GetSeries(code, start, end string) ([]model.StockDaily, error) {
	return f.series[code], nil
}

type fakeSnapshot struct {
	list    []model.StockInfo
	infos   map[string]*model.StockInfo
	err     error
	hits    int
	infoHit int
}

func (f *fakeSnapshot) StockList() ([]model.StockInfo, error) {
	f.hits++
	return f.list, f.err
}

func (f *fakeSnapshot) BasicInfo(code string) (*model.StockInfo, error) {
	f.infoHit++
	if f.err != nil {
		return nil, f.err
	}
	return f.infos[code], nil
}

type fakeRemote struct {
	infos    map[string]*model.StockInfo
	series   map[string][]model.StockDaily
	err      error
	infoHits int
	barHits  int
}

func (f *fakeRemote) BasicInfo(code string) (*model.StockInfo, error) {
	f.infoHits++
	if f.err != nil {
		return nil, f.err
	}
	return f.infos[code], nil
}

func (f *fakeRemote) DailySeries(code, start, end string) ([]model.StockDaily, error) {
	f.barHits++
	if f.err != nil {
		return nil, f.err
	}
	return f.series[code], nil
}

func bar(code, date string, change float64) model.StockDaily {
	return model.StockDaily{StockCode: code, TradeDate: date, ChangePercent: &change}
}

// ════════════════════════════════════════════════════════════════════
// Stock list fallback
// ════════════════════════════════════════════════════════════════════

func TestResolveStockList_DatabaseFirst(t *testing.T) {
	stocks := &fakeStockStore{all: []model.StockInfo{{StockCode: "000001", Industry: "银行"}}}
	snap := &fakeSnapshot{list: []model.StockInfo{{StockCode: "999999"}}}
	r := New(stocks, &fakeDailyStore{}, snap, &fakeRemote{}, "20250101")

	got := r.ResolveStockList()
	if len(got) != 1 || got[0].StockCode != "000001" {
		t.Fatalf("expected database result, got %v", got)
	}
	if snap.hits != 0 {
		t.Error("snapshot should not be consulted when database has data")
	}
}

func TestResolveStockList_FallsBackToSnapshot(t *testing.T) {
	stocks := &fakeStockStore{failAll: true}
	snap := &fakeSnapshot{list: []model.StockInfo{{StockCode: "000001", Industry: ""}}}
	r := New(stocks, &fakeDailyStore{}, snap, &fakeRemote{}, "20250101")

	got := r.ResolveStockList()
	if len(got) != 1 || got[0].StockCode != "000001" {
		t.Fatalf("expected snapshot result, got %v", got)
	}
	// missing industry labels are normalized, never left empty
	if got[0].Industry != model.UnknownIndustry {
		t.Errorf("expected industry to normalize to %s, got %q", model.UnknownIndustry, got[0].Industry)
	}
}

func TestResolveStockList_FallsBackToDefaults(t *testing.T) {
	stocks := &fakeStockStore{failAll: true}
	snap := &fakeSnapshot{err: errors.New("no csv")}
	r := New(stocks, &fakeDailyStore{}, snap, &fakeRemote{}, "20250101")

	got := r.ResolveStockList()
	if len(got) != 5 {
		t.Fatalf("expected built-in default list of 5 stocks, got %d", len(got))
	}
	if got[0].StockCode != "000001" || got[0].StockName != "平安银行" {
		t.Errorf("unexpected first default stock: %+v", got[0])
	}
}

// ════════════════════════════════════════════════════════════════════
// Daily series fallback and write-back
// ════════════════════════════════════════════════════════════════════

func TestResolveDailySeries_DatabaseHitSkipsRemote(t *testing.T) {
	dailies := &fakeDailyStore{series: map[string][]model.StockDaily{
		"000001": {bar("000001", "2025-01-02", 1.0)},
	}}
	remote := &fakeRemote{}
	r := New(&fakeStockStore{}, dailies, &fakeSnapshot{}, remote, "20250101")

	got := r.ResolveDailySeries("000001", "2025-01-01", "2025-01-31")
	if len(got) != 1 {
		t.Fatalf("expected 1 bar, got %d", len(got))
	}
	if remote.barHits != 0 {
		t.Error("remote should not be consulted on database hit")
	}
}

func TestResolveDailySeries_RemoteWriteBack(t *testing.T) {
	dailies := &fakeDailyStore{}
	remote := &fakeRemote{series: map[string][]model.StockDaily{
		"000001": {bar("000001", "2025-01-02", 1.0), bar("000001", "2025-01-03", -0.5)},
	}}
	r := New(&fakeStockStore{}, dailies, &fakeSnapshot{}, remote, "20250101")

	got := r.ResolveDailySeries("000001", "2025-01-01", "2025-01-31")
	if len(got) != 2 {
		t.Fatalf("expected 2 bars from remote, got %d", len(got))
	}
	if len(dailies.saved) != 1 || len(dailies.saved[0]) != 2 {
		t.Error("expected remote bars to be written back to the store")
	}
}

func TestResolveDailySeries_AllSourcesFail(t *testing.T) {
	remote := &fakeRemote{err: errors.New("timeout")}
	r := New(&fakeStockStore{}, &fakeDailyStore{}, &fakeSnapshot{}, remote, "20250101")

	got := r.ResolveDailySeries("000001", "2025-01-01", "2025-01-31")
	if len(got) != 0 {
		t.Errorf("expected empty series when every source fails, got %d bars", len(got))
	}
}

// ════════════════════════════════════════════════════════════════════
// Basic info fallback
// ════════════════════════════════════════════════════════════════════

func TestResolveStockDetail_SnapshotBeforeRemote(t *testing.T) {
	snap := &fakeSnapshot{infos: map[string]*model.StockInfo{
		"000001": {StockCode: "000001", StockName: "平安银行", Industry: "银行"},
	}}
	remote := &fakeRemote{}
	r := New(&fakeStockStore{}, &fakeDailyStore{}, snap, remote, "20250101")

	info, _ := r.ResolveStockDetail("000001")
	if info == nil || info.StockName != "平安银行" {
		t.Fatalf("expected snapshot info, got %+v", info)
	}
	if remote.infoHits != 0 {
		t.Error("remote should not be consulted when snapshot has the stock")
	}
}

func TestResolveStockDetail_RemoteWriteBack(t *testing.T) {
	stocks := &fakeStockStore{stocks: map[string]*model.StockInfo{}}
	remote := &fakeRemote{infos: map[string]*model.StockInfo{
		"000001": {StockCode: "000001", StockName: "平安银行", Industry: ""},
	}}
	r := New(stocks, &fakeDailyStore{}, &fakeSnapshot{}, remote, "20250101")

	info, _ := r.ResolveStockDetail("000001")
	if info == nil {
		t.Fatal("expected remote info")
	}
	if info.Industry != model.UnknownIndustry {
		t.Errorf("expected normalized industry, got %q", info.Industry)
	}
	if len(stocks.upserted) != 1 || stocks.upserted[0] != "000001" {
		t.Error("expected remote hit to be written back via Upsert")
	}
}
