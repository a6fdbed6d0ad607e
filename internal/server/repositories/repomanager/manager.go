package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/placerate/internal/dbx"
	"github.com/dmitrijs2005/placerate/internal/server/repositories/cards"
	"github.com/dmitrijs2005/placerate/internal/server/repositories/comments"
	"github.com/dmitrijs2005/placerate/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/placerate/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a *sql.DB or *sql.Tx, so that
// services can run several repositories inside one transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Cards(db dbx.DBTX) cards.Repository
	Comments(db dbx.DBTX) comments.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
}
