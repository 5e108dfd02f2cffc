package service_test

import (
	"strings"

	"github.com/okian/draftboard/internal/domain/table"
)

const historicalCSV = "player_id,Week,salary,actual,is Quarterbacks,is Running Backs,is Tight Ends,is Wide Receivers,linear predicted points,boosting predicted points\n" +
	"X001wk5,5,50.0,22.0,True,False,False,False,20.1,19.5\n" +
	"X002wk5,5,40.0,11.0,False,True,False,False,15.0,14.0\n" +
	"X003wk6,6,61.0,30.5,True,False,False,False,24.0,25.0\n" +
	"X004wk6,6,35.5,4.0,False,False,False,True,9.0,8.5\n" +
	"X005wk0,0,10.0,0.0,True,False,False,False,1.0,1.0\n" +
	"X006wk6,6,44.0,12.0,False,False,False,False,12.0,12.0\n"

const currentCSV = "player_id,Week,salary,is Quarterbacks,is Running Backs,is Tight Ends,is Wide Receivers,linear predicted points,boosting predicted points\n" +
	"Y001,17,52.0,True,False,False,False,21.0,22.5\n" +
	"Y002,17,30.0,False,False,True,False,7.5,8.0\n"

func mustTable(csv string) table.Table {
	t, err := table.ReadCSV(strings.NewReader(csv))
	if err != nil {
		panic(err)
	}
	return t
}

func rawTables() (table.Table, table.Table) {
	return mustTable(historicalCSV), mustTable(currentCSV)
}

func names(t table.Table) []string {
	col, err := t.Column("Name")
	if err != nil {
		panic(err)
	}
	return col.Records()
}
