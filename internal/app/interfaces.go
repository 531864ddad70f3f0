package app

import (
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/potionworks/potiond/config"
)

// DatabaseProvider provides database access
type DatabaseProvider interface {
	Database() *mongo.Database
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// AppContext combines the provider interfaces for full application context.
// Components should depend on specific providers or this combined interface.
type AppContext interface {
	DatabaseProvider
	ConfigProvider
}
