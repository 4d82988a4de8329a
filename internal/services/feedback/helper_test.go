package feedback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/thenoetrevino/retro/internal/models"
	"pgregory.net/rapid"
)

func columnWith(items ...*models.FeedbackItem) *models.BoardColumn {
	col := &models.BoardColumn{}
	for _, item := range items {
		col.Items = append(col.Items, &models.ColumnItem{FeedbackItem: item})
	}
	return col
}

func mockFeedbackItem(displayID int) *models.FeedbackItem {
	return &models.FeedbackItem{ID: "", DisplayID: displayID}
}

func TestGetNextDisplayID(t *testing.T) {
	tests := []struct {
		name    string
		columns map[int]*models.BoardColumn
		want    int
	}{
		{
			name:    "returns 1 when there are no items",
			columns: map[int]*models.BoardColumn{123: columnWith()},
			want:    1,
		},
		{
			name: "returns indexed next number",
			columns: map[int]*models.BoardColumn{
				1: columnWith(mockFeedbackItem(0)),
				2: columnWith(mockFeedbackItem(0)),
			},
			want: 3,
		},
		{
			name: "returns display id next number",
			columns: map[int]*models.BoardColumn{
				1: columnWith(mockFeedbackItem(1)),
				2: columnWith(mockFeedbackItem(3)),
			},
			want: 4,
		},
		{
			name: "returns display id next number with missing display id",
			columns: map[int]*models.BoardColumn{
				1: columnWith(mockFeedbackItem(0)),
				2: columnWith(mockFeedbackItem(1)),
			},
			want: 2,
		},
		{
			name: "ignores placeholder items",
			columns: map[int]*models.BoardColumn{
				1: columnWith(&models.FeedbackItem{ID: models.EmptyFeedbackID, DisplayID: 2}),
				2: columnWith(mockFeedbackItem(1)),
			},
			want: 2,
		},
		{
			name:    "nil map",
			columns: nil,
			want:    1,
		},
		{
			name: "skips nil columns and items",
			columns: map[int]*models.BoardColumn{
				1: nil,
				2: {Items: []*models.ColumnItem{nil, {FeedbackItem: nil}}},
				3: columnWith(mockFeedbackItem(0)),
			},
			want: 2,
		},
		{
			name: "placeholders alone number from 1",
			columns: map[int]*models.BoardColumn{
				1: columnWith(&models.FeedbackItem{ID: models.EmptyFeedbackID}),
				2: columnWith(&models.FeedbackItem{ID: models.EmptyFeedbackID, DisplayID: 7}),
			},
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetNextDisplayID(tt.columns))
		})
	}
}

// The next id never collides with an id already on the board, and for a
// fully numbered or fully unnumbered board it also exceeds the item count.
func TestGetNextDisplayID_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		numColumns := rapid.IntRange(0, 5).Draw(t, "numColumns")
		numbered := rapid.Bool().Draw(t, "numbered")

		columns := make(map[int]*models.BoardColumn, numColumns)
		used := map[int]bool{}
		realCount, maxID := 0, 0

		for c := 0; c < numColumns; c++ {
			col := &models.BoardColumn{Properties: &models.Column{ID: c + 1}}
			numItems := rapid.IntRange(0, 6).Draw(t, "numItems")
			for i := 0; i < numItems; i++ {
				if rapid.IntRange(0, 9).Draw(t, "placeholderRoll") == 0 {
					col.Items = append(col.Items, &models.ColumnItem{FeedbackItem: &models.FeedbackItem{
						ID:        models.EmptyFeedbackID,
						DisplayID: rapid.IntRange(0, 500).Draw(t, "placeholderDisplayID"),
					}})
					continue
				}

				displayID := 0
				if numbered {
					displayID = rapid.IntRange(1, 200).Filter(func(v int) bool { return !used[v] }).Draw(t, "displayID")
					used[displayID] = true
				}
				realCount++
				maxID = max(maxID, displayID)
				col.Items = append(col.Items, &models.ColumnItem{FeedbackItem: &models.FeedbackItem{ID: "item", DisplayID: displayID}})
			}
			columns[col.Properties.ID] = col
		}

		next := GetNextDisplayID(columns)

		if next <= maxID {
			t.Fatalf("next id %d does not exceed max existing id %d", next, maxID)
		}
		if used[next] {
			t.Fatalf("next id %d collides with an existing id", next)
		}
		if numbered && next <= realCount {
			t.Fatalf("next id %d does not exceed item count %d", next, realCount)
		}
		if !numbered && next != realCount+1 {
			t.Fatalf("unnumbered board: next id %d, want %d", next, realCount+1)
		}
	})
}

func TestFormatTimer(t *testing.T) {
	tests := []struct {
		secs int
		want string
	}{
		{0, "0:00"},
		{9, "0:09"},
		{60, "1:00"},
		{125, "2:05"},
		{671, "11:11"},
		{-4, "0:00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatTimer(tt.secs), "FormatTimer(%d)", tt.secs)
	}
}

func TestCardLabel(t *testing.T) {
	assert.Equal(t, "#12", CardLabel(&models.FeedbackItem{DisplayID: 12}, 0))
	assert.Equal(t, "#3", CardLabel(&models.FeedbackItem{}, 2))
}

func TestPlaceholder(t *testing.T) {
	p := Placeholder(4, 9)
	assert.True(t, p.FeedbackItem.IsPlaceholder())
	assert.Equal(t, 9, p.FeedbackItem.ColumnID)
	assert.Equal(t, 1, GetNextDisplayID(map[int]*models.BoardColumn{9: {Items: []*models.ColumnItem{p}}}))
}
