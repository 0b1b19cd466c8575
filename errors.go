/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package pdflayout

import "github.com/unidoc/pdflayout/internal/pdferr"

// The structured error taxonomy is implemented in
// internal/pdferr, unreachable from outside this module's tree; these
// aliases re-export it on the public surface so callers can type-assert
// or errors.As against it directly.
type (
	ParseError            = pdferr.ParseError
	IoError               = pdferr.IoError
	FontError             = pdferr.FontError
	InterpreterError      = pdferr.InterpreterError
	ResourceLimitExceeded = pdferr.ResourceLimitExceeded
	PasswordRequired      = pdferr.PasswordRequired
	InvalidPassword       = pdferr.InvalidPassword
	OtherError            = pdferr.Other
)
