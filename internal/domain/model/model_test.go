package model

import "testing"

func TestNewRestaurant(t *testing.T) {
	r := NewRestaurant("Luigi's", "Naples")
	if r.ID == "" {
		t.Error("expected generated id")
	}
	if r.Name != "Luigi's" || r.Location != "Naples" {
		t.Errorf("unexpected fields: %+v", r)
	}
	if r.CreatedAt.IsZero() {
		t.Error("expected creation timestamp")
	}

	other := NewRestaurant("Luigi's", "Naples")
	if other.ID == r.ID {
		t.Error("ids must be unique")
	}
}

func TestNewReview(t *testing.T) {
	rv := NewReview("rest-1", "great food!", 0.62, LabelPositive)
	if rv.ID == "" {
		t.Error("expected generated id")
	}
	if rv.RestaurantID != "rest-1" {
		t.Errorf("unexpected restaurant id: %s", rv.RestaurantID)
	}
	if rv.Score != 0.62 || rv.Label != LabelPositive {
		t.Errorf("unexpected sentiment: %f %s", rv.Score, rv.Label)
	}
	if rv.CreatedAt.IsZero() {
		t.Error("expected creation timestamp")
	}
}
