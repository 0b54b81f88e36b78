// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import "time"

type Secret struct {
	Name      string    `db:"name"`
	Value     string    `db:"value"`
	UpdatedAt time.Time `db:"updated_at"`
}
