package dataset

import (
	"testing"

	"driftwatch/domain/core"
)

func TestTable_AddColumn(t *testing.T) {
	table := NewTable()
	if err := table.AddColumn("a", []float64{1, 2, 3}); err != nil {
		t.Fatalf("AddColumn failed: %v", err)
	}
	if err := table.AddColumn("b", []float64{4, 5, 6}); err != nil {
		t.Fatalf("AddColumn failed: %v", err)
	}

	if table.NumRows() != 3 || table.NumColumns() != 2 {
		t.Errorf("Expected 3x2 table, got %dx%d", table.NumRows(), table.NumColumns())
	}
	col, ok := table.Column("b")
	if !ok || col[2] != 6 {
		t.Errorf("Unexpected column b: %v (ok=%t)", col, ok)
	}
}

func TestTable_AddColumnRejectsBadInput(t *testing.T) {
	table := NewTable()
	if err := table.AddColumn("", []float64{1}); !core.IsValidationError(err) {
		t.Errorf("Expected validation error for empty name, got %v", err)
	}
	if err := table.AddColumn("a", []float64{1, 2}); err != nil {
		t.Fatalf("AddColumn failed: %v", err)
	}
	if err := table.AddColumn("a", []float64{3, 4}); !core.IsValidationError(err) {
		t.Errorf("Expected validation error for duplicate name, got %v", err)
	}
	if err := table.AddColumn("b", []float64{1, 2, 3}); !core.IsValidationError(err) {
		t.Errorf("Expected validation error for length mismatch, got %v", err)
	}
}

func TestTable_RowsMaterialization(t *testing.T) {
	table := NewTable()
	_ = table.AddColumn("x", []float64{1, 2})
	_ = table.AddColumn("y", []float64{3, 4})

	rows, err := table.Rows()
	if err != nil {
		t.Fatalf("Rows failed: %v", err)
	}
	if len(rows) != 2 || rows[0][0] != 1 || rows[0][1] != 3 || rows[1][1] != 4 {
		t.Errorf("Unexpected rows: %v", rows)
	}

	sub, err := table.Rows("y")
	if err != nil {
		t.Fatalf("Rows(y) failed: %v", err)
	}
	if len(sub[0]) != 1 || sub[1][0] != 4 {
		t.Errorf("Unexpected projected rows: %v", sub)
	}

	if _, err := table.Rows("missing"); !core.IsNotFoundError(err) {
		t.Errorf("Expected not-found error for missing column, got %v", err)
	}
}

func TestTable_SharedColumns(t *testing.T) {
	left := NewTable()
	_ = left.AddColumn("a", []float64{1})
	_ = left.AddColumn("b", []float64{2})
	_ = left.AddColumn("label", []float64{0})

	right := NewTable()
	_ = right.AddColumn("b", []float64{5})
	_ = right.AddColumn("label", []float64{1})
	_ = right.AddColumn("c", []float64{6})

	shared := left.SharedColumns(right, []string{"label"})
	if len(shared) != 1 || shared[0] != "b" {
		t.Errorf("Expected shared columns [b], got %v", shared)
	}
}
