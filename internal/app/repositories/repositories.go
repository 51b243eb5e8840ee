package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	Store          *PgStore
	RoleRepository *RoleRepository
}

// NewRepositories initializes all repositories
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Store:          NewPgStore(pool),
		RoleRepository: NewRoleRepository(pool),
	}
}
