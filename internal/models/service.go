package models

import "time"

// Service — услуга из каталога. ID назначается при создании и больше
// не меняется. Удаление услуги не трогает записи, которые на неё
// ссылаются: такие записи показываются с заглушкой вместо названия.
type Service struct {
	ID              string    `json:"id" yaml:"id"`
	Name            string    `json:"name" yaml:"name"`
	Price           float64   `json:"price" yaml:"price"`
	DurationMinutes int       `json:"duration" yaml:"duration"`
	Description     string    `json:"description,omitempty" yaml:"description"`
	CreatedAt       time.Time `json:"created_at" yaml:"created_at"`
}

// BusinessProfile — карточка бизнеса. Инвариантов не несёт.
type BusinessProfile struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Address     string `json:"address,omitempty"`
	Description string `json:"description,omitempty"`
}
