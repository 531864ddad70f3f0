package app

import (
	"context"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/potionworks/potiond/config"
)

const connectTimeout = 10 * time.Second

type Application struct {
	appConfig   *config.AppConfig
	mongoClient *mongo.Client
	database    *mongo.Database
}

// Ensure Application implements all provider interfaces
var (
	_ ConfigProvider   = (*Application)(nil)
	_ DatabaseProvider = (*Application)(nil)
	_ AppContext       = (*Application)(nil)
)

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig}
}

func (a *Application) Config() *config.AppConfig {
	return a.appConfig
}

func (a *Application) Database() *mongo.Database {
	return a.database
}

// OverrideDatabase replaces the application's database handle (used in tests).
func (a *Application) OverrideDatabase(db *mongo.Database) {
	a.database = db
}

func (a *Application) Init(ctx context.Context) error {
	cfg := a.appConfig

	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Error("timezone config error")
	} else {
		time.Local = loc
	}

	a.initLogger()

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Database.URL))
	if err != nil {
		return errors.Wrap(err, "connect database")
	}
	if err := client.Ping(ctx, nil); err != nil {
		return errors.Wrap(err, "ping database")
	}
	a.mongoClient = client
	a.database = client.Database(cfg.Database.Name)
	zap.S().Infof("Database connection successful, name: %s", cfg.Database.Name)

	return a.ensureIndexes(ctx)
}

// initLogger configures the global zap logger, with file rotation when enabled.
func (a *Application) initLogger() {
	cfg := a.appConfig

	var zapConfig zap.Config
	if cfg.Logger.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.OutputPaths = []string{"stdout"}

	var logger *zap.Logger
	if cfg.Logger.FileEnable {
		lumberJackLogger := &lumberjack.Logger{
			Filename:   cfg.Logger.Filename,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
			Compress:   false,
		}

		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(lumberJackLogger),
				zapConfig.Level,
			),
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(os.Stdout),
				zapConfig.Level,
			),
		)
		logger = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	} else {
		var err error
		logger, err = zapConfig.Build(zap.AddCaller(), zap.AddCallerSkip(1))
		if err != nil {
			panic(err)
		}
	}

	zap.ReplaceGlobals(logger)
}

// ensureIndexes creates the indexes the service relies on. The unique index
// on users.name is what turns a duplicate registration into a store error.
func (a *Application) ensureIndexes(ctx context.Context) error {
	users := a.database.Collection("users")
	_, err := users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return errors.Wrap(err, "create user name index")
	}

	potions := a.database.Collection("potions")
	_, err = potions.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "vendor_id", Value: 1}},
	})
	if err != nil {
		return errors.Wrap(err, "create potion vendor index")
	}
	return nil
}

// Release closes the database connection.
func (a *Application) Release(ctx context.Context) {
	if a.mongoClient != nil {
		if err := a.mongoClient.Disconnect(ctx); err != nil {
			zap.S().Errorf("database disconnect failed: %v", err)
		}
	}
}
