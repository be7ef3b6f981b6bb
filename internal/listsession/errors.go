// Copyright (c) 2025 GunplaHub
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package listsession

import "errors"

// ErrNoDeleter is returned when Delete is called on a read-only session.
var ErrNoDeleter = errors.New("list session has no deleter configured")
