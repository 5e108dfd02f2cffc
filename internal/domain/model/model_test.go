package model_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/okian/draftboard/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricCatalog(t *testing.T) {
	Convey("Given the metric catalog", t, func() {
		Convey("Then it should hold twelve names", func() {
			So(len(model.MetricColumns), ShouldEqual, 12)
		})

		Convey("And every model family should have every metric shape", func() {
			for _, m := range model.Models {
				So(model.IsMetric(m+" predicted points"), ShouldBeTrue)
				So(model.IsMetric(m+" Prob > 10"), ShouldBeTrue)
				So(model.IsMetric(m+" Prob > 15"), ShouldBeTrue)
				So(model.IsMetric(m+" Prob > 20"), ShouldBeTrue)
			}
		})

		Convey("And the dashboard order should be grouped by metric shape", func() {
			So(model.MetricColumns[0], ShouldEqual, "linear predicted points")
			So(model.MetricColumns[2], ShouldEqual, "neighbors predicted points")
			So(model.MetricColumns[3], ShouldEqual, "linear Prob > 10")
			So(model.MetricColumns[11], ShouldEqual, "neighbors Prob > 20")
		})

		Convey("And unknown names should not be metrics", func() {
			So(model.IsMetric("salary"), ShouldBeFalse)
			So(model.IsMetric("forest predicted points"), ShouldBeFalse)
			So(model.IsMetric("linear prob > 10"), ShouldBeFalse)
		})
	})
}

func TestParsePosition(t *testing.T) {
	Convey("Given position labels", t, func() {
		Convey("When parsing known labels in any case", func() {
			p, err := model.ParsePosition(" wr ")
			So(err, ShouldBeNil)
			So(p, ShouldEqual, model.WideReceiver)
		})

		Convey("When parsing an unknown label", func() {
			_, err := model.ParsePosition("K")
			So(errors.Is(err, model.ErrUnknownPosition), ShouldBeTrue)
		})

		Convey("Then the zero position should be undefined", func() {
			So(model.Position("").Defined(), ShouldBeFalse)
			So(model.TightEnd.Defined(), ShouldBeTrue)
		})

		Convey("Then the priority order should be QB, RB, TE, WR", func() {
			order := make([]model.Position, 0, len(model.PositionPriority))
			for _, ind := range model.PositionPriority {
				order = append(order, ind.Position)
			}
			So(order, ShouldResemble, []model.Position{model.Quarterback, model.RunningBack, model.TightEnd, model.WideReceiver})
		})
	})
}

func TestComparator(t *testing.T) {
	Convey("Given comparator tokens", t, func() {
		Convey("When parsing supported tokens", func() {
			for _, tok := range []string{">", "<", ">=", "<=", "==", "!="} {
				c, err := model.ParseComparator(tok)
				So(err, ShouldBeNil)
				So(string(c), ShouldEqual, tok)
			}
		})

		Convey("When parsing unsupported tokens", func() {
			for _, tok := range []string{"=", "in", "> 0 or 1", ""} {
				_, err := model.ParseComparator(tok)
				So(errors.Is(err, model.ErrUnsupportedComparator), ShouldBeTrue)
			}
		})

		Convey("When decoding a filter from JSON", func() {
			var f model.Filter
			err := json.Unmarshal([]byte(`{"column":"salary","comparator":">=","value":5000}`), &f)
			So(err, ShouldBeNil)
			So(f.Comparator, ShouldEqual, model.GreaterEq)

			v, err := f.Operand()
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 5000.0)
		})

		Convey("When decoding a filter with a bad comparator", func() {
			var f model.Filter
			err := json.Unmarshal([]byte(`{"column":"salary","comparator":"~","value":1}`), &f)
			So(errors.Is(err, model.ErrUnsupportedComparator), ShouldBeTrue)
		})
	})
}

func TestFilterOperand(t *testing.T) {
	Convey("Given filters with different value kinds", t, func() {
		Convey("Then integers should widen to float64", func() {
			v, err := model.Filter{Column: "Week", Comparator: model.Equal, Value: 5}.Operand()
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 5.0)
		})

		Convey("Then strings should pass through", func() {
			v, err := model.Filter{Column: "Name", Comparator: model.Equal, Value: "X001"}.Operand()
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "X001")
		})

		Convey("Then nil should be rejected", func() {
			_, err := model.Filter{Column: "Week", Comparator: model.Equal}.Operand()
			So(errors.Is(err, model.ErrInvalidValue), ShouldBeTrue)
		})

		Convey("Then String should render the expression", func() {
			f := model.Filter{Column: "linear Prob > 10", Comparator: model.Greater, Value: 0.5}
			So(f.String(), ShouldEqual, "(linear Prob > 10 > 0.5)")
			So(model.Filter{Column: "Name", Comparator: model.Equal, Value: "A"}.String(), ShouldEqual, `(Name == "A")`)
		})
	})
}
