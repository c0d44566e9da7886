// Copyright (c) 2026 360Lateral. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package documents drives the document validation workflow: reviewers list the
documents uploaded for lots, group them per lot and validate or reject each one.

# Workflow

	pendiente -> validado
	pendiente -> rechazado (a comment is mandatory)

The transition itself is performed by the backend; this package validates the
request and presents the results.
*/
package documents

import (
	"time"

	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/ident"
)

// # Domain Entities

// Status is the validation state of a document.
type Status string

const (
	StatusPending   Status = "pendiente"
	StatusValidated Status = "validado"
	StatusRejected  Status = "rechazado"
)

// Action is the backend verb of a validation decision.
type Action string

const (
	ActionValidate Action = "validar"
	ActionReject   Action = "rechazar"
)

// Document is a file attached to a lot and subject to validation.
type Document struct {
	ID           ident.ID   `json:"id"`
	Title        string     `json:"title"`
	DocumentType string     `json:"document_type,omitempty"`
	FileURL      string     `json:"file,omitempty"`
	Status       Status     `json:"validation_status"`
	Comments     string     `json:"validation_comments,omitempty"`
	LotID        ident.ID   `json:"lote,omitempty"`
	LotName      string     `json:"lote_nombre,omitempty"`
	UploadedBy   string     `json:"uploaded_by,omitempty"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
}

// IsPending reports whether the document still awaits a decision.
func (document *Document) IsPending() bool {
	return document.Status == StatusPending || document.Status == ""
}

// Group holds the documents of one lot.
type Group struct {
	LotID     ident.ID   `json:"lot_id"`
	LotName   string     `json:"lot_name"`
	Pending   int        `json:"pending"`
	Documents []Document `json:"documents"`
}

// ActionResult is the backend answer to a validation decision.
type ActionResult struct {
	Message  string    `json:"message,omitempty"`
	Document *Document `json:"document,omitempty"`
}

// # Field Identifiers

const (
	FieldComments = "comments"
	FieldStatus   = "status"

	// UnassignedLotName labels documents that reference no lot.
	UnassignedLotName = "Sin lote"
)
