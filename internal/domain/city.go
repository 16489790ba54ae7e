package domain

type City struct {
	ID   string `json:"id"`
	Name string `json:"city_name"`
}
