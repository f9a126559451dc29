package org

import "time"

type Headquarters struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	Region    string    `json:"region"`
	Country   string    `json:"country"`
	CreatedAt time.Time `json:"createdAt"`
}

type Department struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	HeadquartersID string    `json:"headquartersId"`
	CreatedAt      time.Time `json:"createdAt"`
}

type HeadquartersInput struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	Region   string `json:"region"`
	Country  string `json:"country"`
}

type DepartmentInput struct {
	Name           string `json:"name"`
	HeadquartersID string `json:"headquartersId"`
}
