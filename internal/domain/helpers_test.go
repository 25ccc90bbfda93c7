package domain

import "time"

var fixedTime = time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
