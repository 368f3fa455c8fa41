package dossier

import "math"

// Weights assigns a confidence contribution to each kind of evidence.
type Weights struct {
	Name     float64
	Title    float64
	Email    float64
	Phone    float64
	Bio      float64
	Company  float64
	Location float64
	Image    float64

	// Social is added once per populated social link.
	Social float64

	// Bonus is added when at least three core fields are present.
	Bonus float64
}

// DefaultWeights is used by strategies that have no tuned weighting.
var DefaultWeights = Weights{
	Name:     0.3,
	Title:    0.2,
	Email:    0.1,
	Phone:    0.05,
	Bio:      0.1,
	Company:  0.1,
	Location: 0.05,
	Image:    0.05,
	Social:   0.05,
	Bonus:    0.1,
}

// Score computes the confidence of p as a weighted sum of its evidence,
// clamped to [0,1].
func Score(p *Profile, w Weights) float64 {
	var s float64
	add := func(v string, weight float64) {
		if v != "" {
			s += weight
		}
	}
	add(p.Name, w.Name)
	add(p.Title, w.Title)
	add(p.Email, w.Email)
	add(p.Phone, w.Phone)
	add(p.Bio, w.Bio)
	add(p.Company, w.Company)
	add(p.Location, w.Location)
	add(p.ImageURL, w.Image)
	s += float64(p.SocialLinks.Count()) * w.Social
	if p.Fields() >= 3 {
		s += w.Bonus
	}
	return Clamp(s)
}

// Clamp bounds a confidence to [0,1]. NaN maps to 0.
func Clamp(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
