/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

const (
	Version   = "0.3.0"
	UserAgent = "tcgstandings/" + Version + " (+https://github.com/mikeb26/tcgstandings)"
)
