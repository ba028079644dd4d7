package repository

import (
	"github.com/relaybase/chat-api/internal/infrastructure/database/repository/modelrepo"
	"github.com/relaybase/chat-api/internal/infrastructure/database/repository/sessionrepo"
	"github.com/relaybase/chat-api/internal/infrastructure/database/repository/settingrepo"
	"github.com/relaybase/chat-api/internal/infrastructure/database/repository/usagerepo"
	"github.com/relaybase/chat-api/internal/infrastructure/database/repository/userrepo"

	"github.com/google/wire"
)

var RepositoryProvider = wire.NewSet(
	userrepo.NewUserGormRepository,
	modelrepo.NewModelGormRepository,
	sessionrepo.NewSessionGormRepository,
	settingrepo.NewSettingGormRepository,
	usagerepo.NewUsageGormRepository,
)
