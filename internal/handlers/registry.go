package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	ContactHandler *ContactHandler
	UserHandler    *UserHandler
}
