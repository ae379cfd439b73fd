package handlers

import (
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(NewAuthHandler),
	fx.Provide(NewStudentHandler),
	fx.Provide(NewQuizHandler),
	fx.Provide(NewAcademicHandler),
	fx.Provide(NewAdminHandler),
	fx.Provide(NewImportHandler),
	fx.Invoke(RegisterRoutes),
)
