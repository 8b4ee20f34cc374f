package services

import "rent-dashboard/models"

// DefaultCriteria returns the filter applied before the user submits the form.
func DefaultCriteria() models.FilterCriteria {
	return models.FilterCriteria{
		Cities:   []string{"São Paulo", "Rio de Janeiro"},
		Rooms:    models.IntRange{Min: 2, Max: 3},
		Bathroom: models.IntRange{Min: 1, Max: 2},
		Animals:  []string{"not acept"},
		Price:    models.FloatRange{Min: 500, Max: 5000},
	}
}

// Filter returns, in dataset order, every listing that satisfies all
// predicates of c. The dataset is never modified. No match yields an empty,
// non-nil slice.
func Filter(ds *models.Dataset, c models.FilterCriteria) []models.Listing {
	out := make([]models.Listing, 0)
	for i := 0; i < ds.Len(); i++ {
		if l := ds.At(i); c.Matches(l) {
			out = append(out, l)
		}
	}
	return out
}
