// Copyright (c) 2026 360Lateral. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package lots manages land parcels ("lotes") as registered with the backend.

# Architecture

  - Entities: Lot (server-owned, identified by id and by its CBML code).
  - Service: List, Get and Create against /lotes/.
  - Ordering: Pages are re-sorted locally by an accent-insensitive name key so
    "Álamo" and "alamo" sit together.
*/
package lots

import (
	"time"

	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/ident"
)

// # Domain Entities

// Status is the lifecycle state of a lot as reported by the backend.
type Status string

const (
	StatusActive   Status = "active"
	StatusPending  Status = "pending"
	StatusArchived Status = "archived"
)

// Lot represents a land parcel.
//
// JSON tags follow the backend's Spanish field names.
type Lot struct {
	ID        ident.ID   `json:"id"`
	Name      string     `json:"nombre"`
	CBML      string     `json:"cbml"`
	Address   string     `json:"direccion,omitempty"`
	Area      float64    `json:"area,omitempty"`
	Stratum   int        `json:"estrato,omitempty"`
	District  string     `json:"barrio,omitempty"`
	Status    Status     `json:"status,omitempty"`
	OwnerID   ident.ID   `json:"owner,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// Filter narrows a lot listing.
type Filter struct {
	Search string
	Status Status
}

// CreateInput holds the data required to register a lot.
type CreateInput struct {
	Name     string  `json:"nombre"`
	CBML     string  `json:"cbml"`
	Address  string  `json:"direccion,omitempty"`
	Area     float64 `json:"area,omitempty"`
	Stratum  int     `json:"estrato,omitempty"`
	District string  `json:"barrio,omitempty"`
}

// # Field Identifiers

const (
	FieldName    = "nombre"
	FieldCBML    = "cbml"
	FieldArea    = "area"
	FieldStratum = "estrato"
)
