// Copyright (c) 2026 360Lateral. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/apperr"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/constants"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/httpclient"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/sec"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/validate"
	"github.com/SamirJoseGil/360Lateral-sub000/pkg/pagination"
)

// # Contracts & Types

// Actor identifies the acting user and owns the cached profile.
// The session manager of the auth package satisfies it.
type Actor interface {
	CurrentUser(ctx context.Context) (*User, error)
	UpdateCachedUser(ctx context.Context, user *User) error
}

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	FirstName   *string   `json:"first_name,omitempty"`
	LastName    *string   `json:"last_name,omitempty"`
	Phone       *string   `json:"phone,omitempty"`
	Company     *string   `json:"company,omitempty"`
	Role        *sec.Role `json:"role,omitempty"`
	IsActive    *bool     `json:"is_active,omitempty"`
	IsStaff     *bool     `json:"is_staff,omitempty"`
	IsSuperuser *bool     `json:"is_superuser,omitempty"`
}

// Service performs user operations against the backend on behalf of an [Actor].
type Service struct {
	client *httpclient.Client
	actor  Actor
	logger *slog.Logger
}

// NewService builds a user service. client must carry the actor's tokens.
func NewService(client *httpclient.Client, actor Actor, logger *slog.Logger) *Service {
	return &Service{client: client, actor: actor, logger: logger}
}

// # Queries

// List returns one page of accounts. Only roles that may view all users can list.
func (service *Service) List(ctx context.Context, params pagination.Params) (*pagination.Page[User], error) {
	actor, err := service.actor.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	if !sec.CanViewAllUsers(actor.Role) {
		return nil, apperr.Forbidden("You are not allowed to list users")
	}

	var page pagination.Page[User]
	if err := service.client.Get(ctx, constants.PathUsers, &page, httpclient.WithQuery(params.Query())); err != nil {
		return nil, err
	}

	return &page, nil
}

// Get returns one account. Users may always read their own.
func (service *Service) Get(ctx context.Context, id UserID) (*User, error) {
	actor, err := service.actor.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	if id != actor.ID && !sec.CanViewAllUsers(actor.Role) {
		return nil, apperr.Forbidden("You are not allowed to view this user")
	}

	var user User
	if err := service.client.Get(ctx, userPath(id), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// # Commands

/*
Update validates patch, filters it by the actor's capabilities and sends it.

Self-editable fields (names, phone, company) always pass. Role and account
flags pass only when the actor may change roles; otherwise they are dropped
before transmission.

Parameters:
  - ctx: context.Context
  - id: UserID
  - patch: Patch

Returns:
  - *User: the updated account
  - error: Validation, Forbidden or backend errors
*/
func (service *Service) Update(ctx context.Context, id UserID, patch Patch) (*User, error) {

	// ── 1. Local validation ──
	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	// ── 2. Permission checks ──
	actor, err := service.actor.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	if !sec.CanEditUser(actor.Role, id.String(), actor.ID.String()) {
		return nil, apperr.Forbidden("You are not allowed to edit this user")
	}

	payload, dropped := filterPatch(patch, sec.CanChangeRoles(actor.Role))
	if len(dropped) > 0 {
		service.logger.InfoContext(ctx, "user_update_fields_dropped",
			slog.String("target_id", id.String()),
			slog.Any("fields", dropped),
		)
	}
	if len(payload) == 0 {
		if len(dropped) > 0 {
			return nil, apperr.Forbidden("You are not allowed to change these fields")
		}
		return nil, apperr.ValidationError("Nothing to update")
	}

	// ── 3. Transmit ──
	var updated User
	if err := service.client.Put(ctx, userPath(id), payload, &updated); err != nil {
		return nil, err
	}

	// ── 4. Keep the session profile in step with self-edits ──
	if id == actor.ID {
		if err := service.actor.UpdateCachedUser(ctx, &updated); err != nil {
			service.logger.WarnContext(ctx, "user_cache_update_failed", slog.Any("error", err))
		}
	}

	return &updated, nil
}

// Delete removes an account. Nobody may delete their own account.
func (service *Service) Delete(ctx context.Context, id UserID) error {
	actor, err := service.actor.CurrentUser(ctx)
	if err != nil {
		return err
	}

	if id == actor.ID {
		return apperr.Forbidden("You cannot delete your own account")
	}
	if !sec.CanDeleteUser(actor.Role, id.String(), actor.ID.String()) {
		return apperr.Forbidden("You are not allowed to delete users")
	}

	return service.client.Delete(ctx, userPath(id), nil)
}

// # Helpers

func userPath(id UserID) string {
	return fmt.Sprintf("%s%s/", constants.PathUsers, url.PathEscape(id.String()))
}

func validatePatch(patch Patch) error {
	validator := &validate.Validator{}
	validator.NotBlank(FieldFirstName, patch.FirstName).
		NotBlank(FieldLastName, patch.LastName)

	if patch.Phone != nil && strings.TrimSpace(*patch.Phone) != "" {
		validator.Phone(FieldPhone, *patch.Phone)
	}
	if patch.Role != nil {
		validator.OneOf(FieldRole, string(*patch.Role), sec.RoleNames()...)
	}

	return validator.Err()
}

// filterPatch converts patch into the backend payload. Privileged fields are
// kept only if allowPrivileged; the names of dropped fields are returned.
func filterPatch(patch Patch, allowPrivileged bool) (map[string]any, []string) {
	payload := make(map[string]any)
	var dropped []string

	setString := func(field string, value *string) {
		if value != nil {
			payload[field] = strings.TrimSpace(*value)
		}
	}
	setString(FieldFirstName, patch.FirstName)
	setString(FieldLastName, patch.LastName)
	setString(FieldPhone, patch.Phone)
	setString(FieldCompany, patch.Company)

	privileged := map[string]any{}
	if patch.Role != nil {
		privileged[FieldRole] = patch.Role.BackendName()
	}
	if patch.IsActive != nil {
		privileged[FieldIsActive] = *patch.IsActive
	}
	if patch.IsStaff != nil {
		privileged[FieldIsStaff] = *patch.IsStaff
	}
	if patch.IsSuperuser != nil {
		privileged[FieldIsSuperuser] = *patch.IsSuperuser
	}

	for field, value := range privileged {
		if allowPrivileged {
			payload[field] = value
		} else {
			dropped = append(dropped, field)
		}
	}

	return payload, dropped
}
