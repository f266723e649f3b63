package parsers

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestXLSXParser_Parse(t *testing.T) {
	parser := NewXLSXParser()
	tests := []struct {
		name       string
		rows       [][]string
		wantErr    bool
		wantEvents int
	}{
		{
			name: "one event per user per date",
			rows: [][]string{
				{"User", "Waste Type", "Quantity", "Weight (kg)", "Collected At"},
				{"user-1", "plastic", "3", "1.5", "2025-06-10"},
				{"user-1", "glass", "2", "", "2025-06-10"},
				{"user-2", "plastic", "5", "-", "2025-06-10"},
				{"user-1", "metal", "1", "0.4", "2025-06-11"},
			},
			wantEvents: 3,
		},
		{
			name: "no weight or date columns",
			rows: [][]string{
				{"User", "Waste Type", "Quantity"},
				{"user-1", "plastic", "3"},
				{"user-1", "paper", "7"},
			},
			wantEvents: 1,
		},
		{
			name: "missing user column",
			rows: [][]string{
				{"Waste Type", "Quantity"},
				{"plastic", "3"},
			},
			wantErr: true,
		},
		{
			name: "missing user value",
			rows: [][]string{
				{"User", "Waste Type", "Quantity"},
				{"", "plastic", "3"},
			},
			wantErr: true,
		},
		{
			name: "non-numeric quantity",
			rows: [][]string{
				{"User", "Waste Type", "Quantity"},
				{"user-1", "plastic", "lots"},
			},
			wantErr: true,
		},
		{
			name: "zero quantity",
			rows: [][]string{
				{"User", "Waste Type", "Quantity"},
				{"user-1", "plastic", "0"},
			},
			wantErr: true,
		},
		{
			name: "header only",
			rows: [][]string{
				{"User", "Waste Type", "Quantity"},
			},
			wantErr: true,
		},
		{
			name:    "empty sheet",
			rows:    [][]string{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := buildXLSX(t, tt.rows)
			events, err := parser.Parse(data)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Len(t, events, tt.wantEvents)
		})
	}
}

func TestXLSXParser_Parse_MergesRowsIntoEvents(t *testing.T) {
	parser := NewXLSXParser()
	data := buildXLSX(t, [][]string{
		{"User", "Waste Type", "Quantity", "Weight (kg)", "Collected At"},
		{"user-1", "Plastic", "3", "1.5", "2025-06-10"},
		{"user-1", "glass", "2", "", "2025-06-10"},
		{"user-2", "plastic", "5", "-", "2025-06-10"},
	})

	events, err := parser.Parse(data)
	require.NoError(t, err)
	require.Len(t, events, 2)

	first := events[0]
	require.Equal(t, "user-1", first.UserID.String())
	require.Len(t, first.Items, 2)
	require.Equal(t, "plastic", first.Items[0].WasteTypeID.String(), "waste types are normalized to lower case")
	require.NotNil(t, first.Items[0].WeightKg)
	require.InDelta(t, 1.5, *first.Items[0].WeightKg, 1e-9)
	require.Nil(t, first.Items[1].WeightKg, "empty weight cell means not weighed")
	require.Equal(t, "2025-06-10", first.OccurredAt.Format("2006-01-02"))

	second := events[1]
	require.Equal(t, "user-2", second.UserID.String())
	require.Len(t, second.Items, 1)
	require.Nil(t, second.Items[0].WeightKg, "dashed weight cell means not weighed")
}

func TestXLSXParser_Parse_DeterministicEventIDs(t *testing.T) {
	parser := NewXLSXParser()
	rows := [][]string{
		{"User", "Waste Type", "Quantity", "Collected At"},
		{"user-1", "plastic", "3", "2025-06-10"},
	}

	first, err := parser.Parse(buildXLSX(t, rows))
	require.NoError(t, err)
	second, err := parser.Parse(buildXLSX(t, rows))
	require.NoError(t, err)

	require.Equal(t, first[0].ID, second[0].ID, "re-uploading the same report must produce the same event IDs")
}

func buildXLSX(t *testing.T, rows [][]string) []byte {
	f := excelize.NewFile()
	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	for idx, row := range rows {
		axis, err := excelize.CoordinatesToCellName(1, idx+1)
		require.NoError(t, err)
		cells := make([]interface{}, len(row))
		for i, val := range row {
			cells[i] = val
		}
		require.NoError(t, f.SetSheetRow(sheet, axis, &cells))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())
	return buf.Bytes()
}
