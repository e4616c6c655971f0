package booking

type Review struct {
	ID                  int     `json:"id,omitempty"`
	UserID              int     `json:"user_id,omitempty"`
	PropertyID          int     `json:"property_id"`
	ReviewText          string  `json:"review_text"`
	RatingPersonal      float64 `json:"rating_personal"`
	RatingFacilities    float64 `json:"rating_facilities"`
	RatingCleanliness   float64 `json:"rating_cleanliness"`
	RatingComfort       float64 `json:"rating_comfort"`
	RatingValueForMoney float64 `json:"rating_value_for_money"`
	RatingLocation      float64 `json:"rating_location"`
	RatingWifi          float64 `json:"rating_wifi"`
	ReviewDate          string  `json:"review_date,omitempty"`
}

// Average returns the mean of the seven ratings.
func (r Review) Average() float64 {
	sum := r.RatingPersonal + r.RatingFacilities + r.RatingCleanliness + r.RatingComfort +
		r.RatingValueForMoney + r.RatingLocation + r.RatingWifi
	return sum / 7
}
