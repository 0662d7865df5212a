package cases_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/ONSdigital/dp-covid-area-stats/cases"
	"github.com/ONSdigital/dp-covid-area-stats/cases/mock"
	"github.com/ONSdigital/dp-covid-area-stats/config"
	"github.com/ONSdigital/dp-covid-area-stats/fetcher"
	. "github.com/smartystreets/goconvey/convey"
)

var ctx = context.Background()

func testCfg() config.Config {
	return config.Config{
		UKCasesURL:       "http://test-uk-cases/data?areaType=" + config.AreaTypeToken + "&format=csv",
		ScotlandCasesURL: "http://test-scotland-cases/cumulative-cases.csv",
		DefaultAreaType:  "utla",
	}
}

func ukCasesTable() *fetcher.Table {
	return &fetcher.Table{
		Header: []string{"areaCode", "areaName", "date", "newCasesBySpecimenDate"},
		Rows: [][]string{
			{"E06000001", "Area A", "2021-01-01", "5"},
			{"E06000001", "Area A", "2021-01-03", "7"},
			{"W06000001", "Area C", "2021-01-02", "3"},
		},
	}
}

func scotlandCasesTable() *fetcher.Table {
	return &fetcher.Table{
		Header: []string{"Date", "NHS Borders", "NHS Fife"},
		Rows: [][]string{
			{"2021-01-03", "10", "1"},
			{"2021-01-04", "15", "*"},
			{"2021-01-05", "15", "2"},
			{"2021-01-06", "20", "3"},
		},
	}
}

// testFetcher serves the England/Wales download for strict fetches and the
// Scotland download for lenient ones, mirroring how the provider asks for
// each feed.
func testFetcher() *mock.FetcherMock {
	return &mock.FetcherMock{
		GetCSVFunc: func(ctx context.Context, url string, lenient bool) (*fetcher.Table, error) {
			if lenient {
				return scotlandCasesTable(), nil
			}
			return ukCasesTable(), nil
		},
	}
}

func TestDatasetsReshape(t *testing.T) {
	Convey("Given a Datasets provider with a mocked fetcher", t, func() {
		f := testFetcher()
		provider := cases.NewDatasets(testCfg(), f, cases.NewStore())

		Convey("When the unified dataset is requested", func() {
			m, err := provider.CasesData(ctx, cases.Options{})
			So(err, ShouldBeNil)

			Convey("Then England rows are pivoted and backfilled with zeros on unreported days", func() {
				k := cases.Key{Country: cases.England, AreaName: "Area A"}
				v, ok := m.Value(k, date("2021-01-01"))
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, 5)
				v, _ = m.Value(k, date("2021-01-02"))
				So(v, ShouldEqual, 0)
				v, _ = m.Value(k, date("2021-01-03"))
				So(v, ShouldEqual, 7)
			})

			Convey("Then Wales rows come from the same download, selected by area code prefix", func() {
				k := cases.Key{Country: cases.Wales, AreaName: "Area C"}
				v, ok := m.Value(k, date("2021-01-02"))
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, 3)

				_, found := m.Value(cases.Key{Country: cases.England, AreaName: "Area C"}, date("2021-01-02"))
				So(found, ShouldBeFalse)
			})

			Convey("Then Scotland cumulative counts become daily deltas, earliest column untouched", func() {
				k := cases.Key{Country: cases.Scotland, AreaName: "NHS Borders"}
				want := map[string]float64{
					"2021-01-03": 10,
					"2021-01-04": 5,
					"2021-01-05": 0,
					"2021-01-06": 5,
				}
				for ds, expected := range want {
					v, ok := m.Value(k, date(ds))
					So(ok, ShouldBeTrue)
					So(v, ShouldEqual, expected)
				}
			})

			Convey("Then suppressed Scotland cells are zeroed before differencing, letting deltas go negative", func() {
				k := cases.Key{Country: cases.Scotland, AreaName: "NHS Fife"}
				v, _ := m.Value(k, date("2021-01-04"))
				So(v, ShouldEqual, -1)
				v, _ = m.Value(k, date("2021-01-05"))
				So(v, ShouldEqual, 2)
			})

			Convey("Then the combined date axis spans the union of all three nations", func() {
				dates := m.Dates()
				So(dates[0].Format("2006-01-02"), ShouldEqual, "2021-01-01")
				So(dates[len(dates)-1].Format("2006-01-02"), ShouldEqual, "2021-01-06")

				v, ok := m.Value(cases.Key{Country: cases.Scotland, AreaName: "NHS Borders"}, date("2021-01-01"))
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, 0)
				v, ok = m.Value(cases.Key{Country: cases.England, AreaName: "Area A"}, date("2021-01-06"))
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, 0)
			})

			Convey("Then no two rows share a (country, area) key", func() {
				seen := map[cases.Key]bool{}
				for _, k := range m.Keys() {
					So(seen[k], ShouldBeFalse)
					seen[k] = true
				}
			})
		})
	})
}

func TestDatasetsCaching(t *testing.T) {
	Convey("Given a Datasets provider that has loaded all three nations", t, func() {
		f := testFetcher()
		store := cases.NewStore()
		provider := cases.NewDatasets(testCfg(), f, store)

		_, err := provider.CasesData(ctx, cases.Options{})
		So(err, ShouldBeNil)
		So(f.GetCSVCalls(), ShouldHaveLength, 3)

		Convey("When the dataset is requested again with the same options", func() {
			_, err := provider.CasesData(ctx, cases.Options{})

			Convey("Then no further fetches are made", func() {
				So(err, ShouldBeNil)
				So(f.GetCSVCalls(), ShouldHaveLength, 3)
			})
		})

		Convey("When a second provider shares the same store", func() {
			other := cases.NewDatasets(testCfg(), f, store)
			_, err := other.CasesData(ctx, cases.Options{})

			Convey("Then it reuses the cached datasets", func() {
				So(err, ShouldBeNil)
				So(f.GetCSVCalls(), ShouldHaveLength, 3)
			})
		})

		Convey("When a forced load is requested", func() {
			_, err := provider.CasesData(ctx, cases.Options{ForceLoad: true})

			Convey("Then all three nations are fetched again", func() {
				So(err, ShouldBeNil)
				So(f.GetCSVCalls(), ShouldHaveLength, 6)
			})
		})

		Convey("When a different area type is requested", func() {
			_, err := provider.CasesData(ctx, cases.Options{EnglandAreaType: cases.AreaTypeLowerTier})

			Convey("Then England and Wales are fetched again but Scotland is not", func() {
				So(err, ShouldBeNil)
				calls := f.GetCSVCalls()
				So(calls, ShouldHaveLength, 5)
				So(calls[3].URL, ShouldContainSubstring, "areaType=ltla")
				So(calls[4].URL, ShouldContainSubstring, "areaType=ltla")
			})
		})
	})

	Convey("Given a Datasets provider with an empty store", t, func() {
		f := testFetcher()
		provider := cases.NewDatasets(testCfg(), f, cases.NewStore())

		Convey("When the default area type is used", func() {
			_, err := provider.CasesData(ctx, cases.Options{})

			Convey("Then the England and Wales fetches substitute the default into the URL", func() {
				So(err, ShouldBeNil)
				calls := f.GetCSVCalls()
				So(calls[0].URL, ShouldContainSubstring, "areaType=utla")
				So(calls[0].URL, ShouldNotContainSubstring, config.AreaTypeToken)
				So(calls[0].Lenient, ShouldBeFalse)
			})

			Convey("Then the Scotland fetch is lenient", func() {
				So(err, ShouldBeNil)
				calls := f.GetCSVCalls()
				So(calls[2].URL, ShouldEqual, testCfg().ScotlandCasesURL)
				So(calls[2].Lenient, ShouldBeTrue)
			})
		})

		Convey("When an invalid area type is requested", func() {
			_, err := provider.CasesData(ctx, cases.Options{EnglandAreaType: "region"})

			Convey("Then an error is returned and nothing is fetched", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "invalid england area type")
				So(f.GetCSVCalls(), ShouldBeEmpty)
			})
		})
	})
}

func TestDatasetsConcurrency(t *testing.T) {
	Convey("Given a Datasets provider serving concurrent requests", t, func() {
		f := testFetcher()
		store := cases.NewStore()
		provider := cases.NewDatasets(testCfg(), f, store)
		other := cases.NewDatasets(testCfg(), f, store)

		Convey("When the dataset is requested from many goroutines with mixed options", func() {
			areaTypes := []cases.AreaType{cases.AreaTypeUpperTier, cases.AreaTypeLowerTier}
			const requests = 8

			results := make(chan error, requests)
			var wg sync.WaitGroup
			for i := 0; i < requests; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					p := provider
					if i%2 == 0 {
						p = other
					}
					m, err := p.CasesData(ctx, cases.Options{EnglandAreaType: areaTypes[i%2]})
					if err == nil && m.Len() == 0 {
						err = errors.New("empty dataset returned")
					}
					results <- err
				}(i)
			}
			wg.Wait()
			close(results)

			Convey("Then every request succeeds", func() {
				for err := range results {
					So(err, ShouldBeNil)
				}
			})
		})
	})
}

func TestDatasetsLoadFailures(t *testing.T) {
	Convey("Given a fetcher that fails", t, func() {
		errFetch := errors.New("gateway timeout")
		f := &mock.FetcherMock{
			GetCSVFunc: func(ctx context.Context, url string, lenient bool) (*fetcher.Table, error) {
				return nil, errFetch
			},
		}
		provider := cases.NewDatasets(testCfg(), f, cases.NewStore())

		Convey("When the unified dataset is requested", func() {
			_, err := provider.CasesData(ctx, cases.Options{})

			Convey("Then the fetch error is propagated without retrying", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, errFetch), ShouldBeTrue)
				So(f.GetCSVCalls(), ShouldHaveLength, 1)
			})
		})
	})

	Convey("Given a download with duplicate (area, date) rows", t, func() {
		f := &mock.FetcherMock{
			GetCSVFunc: func(ctx context.Context, url string, lenient bool) (*fetcher.Table, error) {
				return &fetcher.Table{
					Header: []string{"areaCode", "areaName", "date", "newCasesBySpecimenDate"},
					Rows: [][]string{
						{"E06000001", "Area A", "2021-01-01", "5"},
						{"E06000001", "Area A", "2021-01-01", "6"},
					},
				}, nil
			},
		}
		provider := cases.NewDatasets(testCfg(), f, cases.NewStore())

		Convey("When the unified dataset is requested", func() {
			_, err := provider.CasesData(ctx, cases.Options{})

			Convey("Then the pivot fails with a duplicate cell error", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "duplicate")
			})
		})
	})

	Convey("Given a Scotland download with a ragged row", t, func() {
		f := &mock.FetcherMock{
			GetCSVFunc: func(ctx context.Context, url string, lenient bool) (*fetcher.Table, error) {
				if lenient {
					return &fetcher.Table{
						Header: []string{"Date", "NHS Borders", "NHS Fife"},
						Rows: [][]string{
							{"2021-01-03", "10", "1"},
							{"2021-01-04", "15"},
						},
					}, nil
				}
				return ukCasesTable(), nil
			},
		}
		provider := cases.NewDatasets(testCfg(), f, cases.NewStore())

		Convey("When the unified dataset is requested", func() {
			_, err := provider.CasesData(ctx, cases.Options{})

			Convey("Then the reshape rejects the row instead of inventing deltas", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "row length does not match header")
				So(err.Error(), ShouldContainSubstring, "failed to load Scotland cases")
			})
		})
	})

	Convey("Given a download missing an expected column", t, func() {
		f := &mock.FetcherMock{
			GetCSVFunc: func(ctx context.Context, url string, lenient bool) (*fetcher.Table, error) {
				return &fetcher.Table{
					Header: []string{"areaCode", "areaName", "date"},
					Rows:   [][]string{{"E06000001", "Area A", "2021-01-01"}},
				}, nil
			},
		}
		provider := cases.NewDatasets(testCfg(), f, cases.NewStore())

		Convey("When the unified dataset is requested", func() {
			_, err := provider.CasesData(ctx, cases.Options{})

			Convey("Then a missing column error is returned", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "column missing")
				So(strings.Contains(err.Error(), "failed to load England cases"), ShouldBeTrue)
			})
		})
	})
}
