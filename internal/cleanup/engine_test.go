package cleanup

import (
	"reflect"
	"testing"

	"github.com/slclab/surveybase/internal/store/postgres"
)

func TestDiffQuestionSets(t *testing.T) {
	tests := []struct {
		name       string
		existing   []int64
		desired    []int64
		wantRemove []int64
		wantAdd    []int64
	}{
		{"no change", []int64{1, 2}, []int64{1, 2}, nil, nil},
		{"add only", []int64{1}, []int64{1, 2, 3}, nil, []int64{2, 3}},
		{"remove only", []int64{1, 2, 3}, []int64{2}, []int64{1, 3}, nil},
		{"swap", []int64{1, 2}, []int64{2, 3}, []int64{1}, []int64{3}},
		{"empty desired", []int64{4, 5}, nil, []int64{4, 5}, nil},
		{"empty existing", nil, []int64{7}, nil, []int64{7}},
		{"both empty", nil, nil, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotRemove, gotAdd := DiffQuestionSets(tt.existing, tt.desired)
			if !reflect.DeepEqual(gotRemove, tt.wantRemove) {
				t.Errorf("toRemove = %v, want %v", gotRemove, tt.wantRemove)
			}
			if !reflect.DeepEqual(gotAdd, tt.wantAdd) {
				t.Errorf("toAdd = %v, want %v", gotAdd, tt.wantAdd)
			}
		})
	}
}

func TestDedupPairs(t *testing.T) {
	in := []postgres.VariableWavePair{
		{VariableID: 1, WaveID: 10},
		{VariableID: 2, WaveID: 10},
		{VariableID: 1, WaveID: 10},
		{VariableID: 1, WaveID: 11},
		{VariableID: 2, WaveID: 10},
	}
	want := []postgres.VariableWavePair{
		{VariableID: 1, WaveID: 10},
		{VariableID: 2, WaveID: 10},
		{VariableID: 1, WaveID: 11},
	}

	got := DedupPairs(in)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DedupPairs = %v, want %v", got, want)
	}
}

func TestDedupPairsEmpty(t *testing.T) {
	if got := DedupPairs(nil); len(got) != 0 {
		t.Errorf("DedupPairs(nil) = %v, want empty", got)
	}
}
