package agents

import (
	"context"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/madhu-yavar/transaction-agent/internal/state"
	"github.com/madhu-yavar/transaction-agent/internal/store"
	"github.com/madhu-yavar/transaction-agent/internal/tabular"
)

func loaderState() *state.State {
	st := state.New(state.SourceLocal, "/tmp/Monthly Sales.csv", "csv", "Monthly Sales.csv")
	st.Frame = tabular.New([]string{" Name ", "Qty"}, [][]string{{"pens", "12"}})
	return st
}

func TestTableLoaderCreatesAndPopulates(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectQuery(`information_schema\.tables`).
		WithArgs("monthly_sales").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`CREATE TABLE "monthly_sales" \(" Name " TEXT, "Qty" TEXT\)`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "monthly_sales"`).
		WithArgs("pens", "12").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	deps := Deps{Store: store.NewWithDB(db, "pgx", nil)}
	st := TableLoader(deps)(context.Background(), loaderState())
	if st.Failed() {
		t.Fatalf("run failed: %s", st.Err)
	}
	if st.TableName != "monthly_sales" {
		t.Fatalf("table name = %q", st.TableName)
	}
	if st.ColumnNames[0] != "Name" || st.OriginalNames[0] != " Name " {
		t.Fatalf("columns = %v / %v", st.ColumnNames, st.OriginalNames)
	}
	if !strings.Contains(st.ChatResponse, "created and populated") {
		t.Fatalf("chat response = %q", st.ChatResponse)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestTableLoaderSkipsExistingTable(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectQuery(`information_schema\.tables`).
		WithArgs("monthly_sales").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	deps := Deps{Store: store.NewWithDB(db, "pgx", nil)}
	st := TableLoader(deps)(context.Background(), loaderState())
	if st.Failed() {
		t.Fatalf("run failed: %s", st.Err)
	}
	if !strings.Contains(st.ChatResponse, "already exists") {
		t.Fatalf("chat response = %q", st.ChatResponse)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestTableLoaderRequiresFrame(t *testing.T) {
	st := state.New(state.SourceLocal, "/tmp/x.csv", "csv", "x.csv")
	st = TableLoader(Deps{})(context.Background(), st)
	if !st.Failed() {
		t.Fatal("expected failure without a frame")
	}
}
