package core

import (
	"encoding/json"
	"reflect"
	"testing"
)

func sampleTable() *Table {
	return &Table{
		Columns: []string{"index.0", "2020.m", "2020.m"},
		Rows: [][]Cell{
			{StringCell("DE"), IntCell(1), FloatCell(1.5)},
			{StringCell("BY"), MissingCell("-"), IntCell(3)},
		},
	}
}

func TestTable_Accessors(t *testing.T) {
	table := sampleTable()

	if table.NumRows() != 2 || table.NumCols() != 3 {
		t.Fatalf("shape = %dx%d, want 2x3", table.NumRows(), table.NumCols())
	}

	tests := []struct {
		name string
		want int
	}{
		{"index.0", 0},
		{"2020.m", 1}, // duplicate names resolve to the first column
		{"missing", -1},
	}
	for _, tt := range tests {
		if got := table.ColumnIndex(tt.name); got != tt.want {
			t.Errorf("ColumnIndex(%q) = %d, want %d", tt.name, got, tt.want)
		}
	}

	col := table.Column(2)
	if len(col) != 2 || !col[0].Equal(FloatCell(1.5)) || !col[1].Equal(IntCell(3)) {
		t.Errorf("Column(2) = %+v", col)
	}
	if table.Column(3) != nil {
		t.Error("Column(3) out of range should be nil")
	}
}

func TestTable_Records(t *testing.T) {
	want := [][]string{
		{"index.0", "2020.m", "2020.m"},
		{"DE", "1", "1.5"},
		{"BY", "", "3"},
	}
	if got := sampleTable().Records(); !reflect.DeepEqual(got, want) {
		t.Errorf("Records() = %q, want %q", got, want)
	}
}

func TestTable_JSON(t *testing.T) {
	table := sampleTable()

	data, err := json.Marshal(table)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	want := `{"columns":["index.0","2020.m","2020.m"],"rows":[["DE",1,1.5],["BY",null,3]]}`
	if string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}

	var back Table
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !back.Equal(table) {
		t.Errorf("decoded table differs: %+v", back)
	}
}

func TestTable_JSON_EmptyRows(t *testing.T) {
	data, err := json.Marshal(&Table{Columns: []string{"a"}})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `{"columns":["a"],"rows":[]}` {
		t.Errorf("Marshal = %s", data)
	}
}

func TestTable_UnmarshalJSON_RaggedRow(t *testing.T) {
	var table Table
	err := json.Unmarshal([]byte(`{"columns":["a","b"],"rows":[[1]]}`), &table)
	if err == nil {
		t.Error("expected error for row narrower than the header")
	}
}

func TestTable_Equal(t *testing.T) {
	a, b := sampleTable(), sampleTable()
	if !a.Equal(b) {
		t.Error("identical tables should be equal")
	}

	b.Rows[1][1] = StringCell("-")
	if a.Equal(b) {
		t.Error("missing cell and string cell should differ")
	}

	var nilTable *Table
	if !nilTable.Equal(nil) {
		t.Error("nil tables should be equal")
	}
	if a.Equal(nil) {
		t.Error("table should not equal nil")
	}
}
