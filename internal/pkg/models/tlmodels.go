package models

import (
	"context"
)

type App struct {
	Ctx       context.Context
	CourseURL string
	Label     string
	Threshold int
	Webhooks  []string
}
