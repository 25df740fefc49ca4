package container

import (
	"cloud.google.com/go/storage"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/oksasatya/dog-registry/config"
	"github.com/oksasatya/dog-registry/pkg/helpers"
)

// app-level container to share constructed components across packages
// Router can auto-wire modules from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	db          *gorm.DB
	redisClient *redis.Client
	gcsClient   *storage.Client

	avatarStore helpers.ObjectStore
	rabbitPub   *helpers.RabbitPublisher
)

func SetConfig(c *config.Config)   { cfg = c }
func GetConfig() *config.Config    { return cfg }
func SetLogger(l *logrus.Logger)   { logger = l }
func GetLogger() *logrus.Logger    { return logger }
func SetDB(d *gorm.DB)             { db = d }
func GetDB() *gorm.DB              { return db }
func SetRedis(r *redis.Client)     { redisClient = r }
func GetRedis() *redis.Client      { return redisClient }
func SetGCS(s *storage.Client)     { gcsClient = s }
func GetGCS() *storage.Client      { return gcsClient }

func SetAvatarStore(s helpers.ObjectStore) { avatarStore = s }
func GetAvatarStore() helpers.ObjectStore  { return avatarStore }

func SetRabbitPub(p *helpers.RabbitPublisher) { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitPublisher  { return rabbitPub }

// Reset clears every singleton. Tests use it between engines.
func Reset() {
	cfg, logger, db, redisClient, gcsClient = nil, nil, nil, nil, nil
	avatarStore, rabbitPub = nil, nil
}
