package service_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	service "github.com/okian/draftboard/internal/app"
	. "github.com/smartystreets/goconvey/convey"
)

func TestServiceIntegration(t *testing.T) {
	Convey("Given prediction files on disk", t, func() {
		dir := t.TempDir()
		histPath := filepath.Join(dir, "full_fantasy_predictions_2020")
		curPath := filepath.Join(dir, "full_fantasy_predictions_2024_with_week_17")
		So(os.WriteFile(histPath, []byte(historicalCSV), 0o600), ShouldBeNil)
		So(os.WriteFile(curPath, []byte(currentCSV), 0o600), ShouldBeNil)

		svc := service.New(
			service.WithHistoricalPath(histPath),
			service.WithCurrentPath(curPath),
		)
		defer svc.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		Convey("When starting the service", func() {
			err := svc.Start(ctx)

			Convey("Then it should start successfully", func() {
				So(err, ShouldBeNil)
				So(svc.GetStats()["historicalRows"], ShouldEqual, 6)
			})

			Convey("And every historical week can be queried", func() {
				total := 0
				for _, label := range svc.Options(ctx).Weeks[1:] {
					res, err := svc.Predictions(ctx, service.Request{Week: label})
					So(err, ShouldBeNil)
					total += res.Table.Len()
				}
				// X005 has week 0 and is never shown.
				So(total, ShouldEqual, 5)
			})

			Convey("And salaries are scaled", func() {
				res, err := svc.Predictions(ctx, service.Request{Week: "2020 Week 5"})
				So(err, ShouldBeNil)
				salary, err := res.Table.Column("salary")
				So(err, ShouldBeNil)
				So(salary.Float(), ShouldResemble, []float64{5000, 4000})
			})
		})
	})
}

func TestServiceEmptyCurrentFile(t *testing.T) {
	Convey("Given a current file with a header and no rows", t, func() {
		dir := t.TempDir()
		histPath := filepath.Join(dir, "historical.csv")
		curPath := filepath.Join(dir, "current.csv")
		header := strings.SplitN(currentCSV, "\n", 2)[0] + "\n"
		So(os.WriteFile(histPath, []byte(historicalCSV), 0o600), ShouldBeNil)
		So(os.WriteFile(curPath, []byte(header), 0o600), ShouldBeNil)

		svc := service.New(
			service.WithHistoricalPath(histPath),
			service.WithCurrentPath(curPath),
		)
		defer svc.Stop()
		ctx := context.Background()

		Convey("When starting the service", func() {
			err := svc.Start(ctx)

			Convey("Then it should start with an empty current table", func() {
				So(err, ShouldBeNil)
				So(svc.GetStats()["currentRows"], ShouldEqual, 0)
			})

			Convey("And the current week should return no rows", func() {
				res, err := svc.Predictions(ctx, service.Request{Week: "2024 Week 17"})
				So(err, ShouldBeNil)
				So(res.Table.Len(), ShouldEqual, 0)
			})
		})
	})
}

func TestServiceConcurrency(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := startedService()
		defer svc.Stop()
		ctx := context.Background()

		Convey("When many goroutines query at once", func() {
			const workers = 16
			var wg sync.WaitGroup
			errs := make(chan error, workers)
			counts := make(chan int, workers)

			for i := 0; i < workers; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					week := "2020 Week 5"
					if i%2 == 0 {
						week = "2020 Week 6"
					}
					res, err := svc.Predictions(ctx, service.Request{Week: week, Models: []string{"linear predicted points"}})
					if err != nil {
						errs <- err
						return
					}
					counts <- res.Table.Len()
				}(i)
			}
			wg.Wait()
			close(errs)
			close(counts)

			Convey("Then every query should succeed with a stable result", func() {
				So(len(errs), ShouldEqual, 0)
				for n := range counts {
					So(n, ShouldBeIn, []int{2, 3})
				}
				So(svc.GetStats()["queriesServed"], ShouldEqual, int64(workers))
			})
		})
	})
}
