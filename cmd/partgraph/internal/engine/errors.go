// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package engine

import "errors"

// ErrFolderNotFound indicates a folder name that resolves to nothing
// in the tenant's folder list.
var ErrFolderNotFound = errors.New("folder not found")

// ErrPropertyNotFound indicates a property name with no
// case-insensitive match in the tenant's property list.
var ErrPropertyNotFound = errors.New("property not found")

// ErrPollTimeout indicates a model still in a transient state when the
// overall polling deadline passed.
var ErrPollTimeout = errors.New("timed out waiting for the model to reach a terminal state")
