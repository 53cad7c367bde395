package contextkeys

// Используем кастомный тип, чтобы избежать коллизий
type contextKey string

// Ключи gin.Context, которые выставляет AuthMiddleware
const (
	// AccountKey - *models.Account текущего пользователя
	AccountKey = contextKey("account")
)

// String возвращает ключ для c.Set / c.Get
func (k contextKey) String() string {
	return string(k)
}
