package core

import "testing"

func TestRecordVector(t *testing.T) {
	r := Record{Values: map[Metric]float64{
		MetricIncidenceRate: 189,
		MetricMortalityRate: 38,
	}}

	vec, ok := r.Vector([]Metric{MetricIncidenceRate, MetricMortalityRate})
	if !ok {
		t.Fatal("Vector() reported incomplete for complete record")
	}
	if len(vec) != 2 || vec[0] != 189 || vec[1] != 38 {
		t.Errorf("Vector() = %v, want [189 38]", vec)
	}

	if _, ok := r.Vector([]Metric{MetricIncidenceRate, MetricDetectionRate}); ok {
		t.Error("Vector() reported complete despite missing metric")
	}
}

func TestRecordHas(t *testing.T) {
	r := Record{Values: map[Metric]float64{MetricPopulation: 1000}}
	if !r.Has(MetricPopulation) {
		t.Error("Has() = false for present metric")
	}
	if r.Has(MetricPopulation, MetricDeathsNum) {
		t.Error("Has() = true despite missing metric")
	}
}

func TestDatasetFind(t *testing.T) {
	ds := &Dataset{Records: testRecords()}

	tests := []struct {
		name    string
		country string
		year    int
		wantOK  bool
	}{
		{"by name", "Afghanistan", 2010, true},
		{"by iso3", "AFG", 2011, true},
		{"wrong year", "Afghanistan", 1999, false},
		{"unknown country", "Atlantis", 2010, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := ds.Find(tt.country, tt.year)
			if found != tt.wantOK {
				t.Fatalf("Find(%q, %d) found = %v, want %v", tt.country, tt.year, found, tt.wantOK)
			}
			if found && got.Year != tt.year {
				t.Errorf("Find() returned year %d, want %d", got.Year, tt.year)
			}
		})
	}
}

func TestDatasetForYear(t *testing.T) {
	ds := &Dataset{Records: testRecords()}
	rows := ds.ForYear(2010)
	if len(rows) != 3 {
		t.Fatalf("ForYear(2010) returned %d rows, want 3", len(rows))
	}
	for _, r := range rows {
		if r.Year != 2010 {
			t.Errorf("ForYear(2010) included year %d", r.Year)
		}
	}
}

func TestDatasetForCountry(t *testing.T) {
	ds := &Dataset{Records: testRecords()}
	if got := len(ds.ForCountry("Brazil")); got != 2 {
		t.Errorf("ForCountry(Brazil) returned %d rows, want 2", got)
	}
	if got := len(ds.ForCountry("ALB")); got != 1 {
		t.Errorf("ForCountry(ALB) returned %d rows, want 1", got)
	}
}

func TestNilDataset(t *testing.T) {
	var ds *Dataset
	if ds.Len() != 0 {
		t.Error("nil dataset Len() != 0")
	}
	if rows := ds.Rows(Filter{}); rows != nil {
		t.Error("nil dataset Rows() != nil")
	}
	if _, ok := ds.Find("AFG", 2010); ok {
		t.Error("nil dataset Find() reported success")
	}
}
