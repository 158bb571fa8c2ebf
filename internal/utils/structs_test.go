package utils

import (
	"reflect"
	"testing"

	"handraise/pkg/types"
)

func TestStructTagValuesFlattensEmbeds(t *testing.T) {
	columns := StructTagValues(&types.Job{})

	want := map[string]bool{"id": false, "title": false, "zipcode": false, "latitude": false}
	for _, column := range columns {
		if _, tracked := want[column]; tracked {
			want[column] = true
		}
	}
	for column, seen := range want {
		if !seen {
			t.Errorf("column %q missing from %v", column, columns)
		}
	}
}

func TestStructToMapFlattensEmbeds(t *testing.T) {
	job := &types.Job{
		ID:    "job-1",
		Title: "Food bank shift",
		JobLocation: types.JobLocation{
			City:    "Denver",
			Zipcode: "80202",
		},
	}

	m := StructToMap(job)

	if m["id"] != "job-1" || m["title"] != "Food bank shift" {
		t.Errorf("top-level fields wrong: %v", m)
	}
	if m["city"] != "Denver" || m["zipcode"] != "80202" {
		t.Errorf("embedded fields not flattened: %v", m)
	}
	if _, present := m["latitude"]; !present {
		t.Errorf("nil pointer column dropped: %v", m)
	}
}

func TestStructToMapSkipsUntaggedFields(t *testing.T) {
	input := struct {
		Kept    string `db:"kept"`
		Ignored string `db:"-"`
		Bare    string
	}{Kept: "v", Ignored: "x", Bare: "y"}

	m := StructToMap(input)
	if !reflect.DeepEqual(m, map[string]any{"kept": "v"}) {
		t.Errorf("unexpected map: %v", m)
	}
}
