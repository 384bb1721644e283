package model

import (
	baseModel "pawsay/pkg/model"
)

// Species 宠物种类
type Species string

const (
	SpeciesCat Species = "cat"
	SpeciesDog Species = "dog"
)

// Valid 是否为支持的种类
func (s Species) Valid() bool {
	return s == SpeciesCat || s == SpeciesDog
}

// ParseSpecies 空值默认为猫
func ParseSpecies(v string) (Species, bool) {
	if v == "" {
		return SpeciesCat, true
	}
	s := Species(v)
	return s, s.Valid()
}

// PetProfile 宠物档案
type PetProfile struct {
	baseModel.BaseModel
	OwnerID     string  `json:"ownerId"`
	Species     Species `json:"type"`
	Name        string  `json:"name"`
	Breed       string  `json:"breed"`
	Age         string  `json:"age"`
	Personality string  `json:"personality"`
	ImageURL    string  `json:"imageUrl,omitempty"`
}
