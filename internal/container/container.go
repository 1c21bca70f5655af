package container

import (
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/fretvault/api/config"
	"github.com/fretvault/api/pkg/helpers"
)

// Process-wide singletons built in main and read by the router while wiring
// modules. Storage, search and the job publisher are optional and stay nil
// when not configured.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client
	jwtManager  *helpers.JWTManager

	objectStore *helpers.GCSStore
	rabbitPub   *helpers.RabbitPublisher
	esIndexer   *helpers.ESIndexer
)

func SetConfig(c *config.Config)   { cfg = c }
func GetConfig() *config.Config    { return cfg }
func SetLogger(l *logrus.Logger)   { logger = l }
func GetLogger() *logrus.Logger    { return logger }
func SetPGPool(p *pgxpool.Pool)    { pgPool = p }
func GetPGPool() *pgxpool.Pool     { return pgPool }
func SetRedis(r *redis.Client)     { redisClient = r }
func GetRedis() *redis.Client      { return redisClient }
func SetJWT(m *helpers.JWTManager) { jwtManager = m }
func GetJWT() *helpers.JWTManager  { return jwtManager }

func SetObjectStore(s *helpers.GCSStore)      { objectStore = s }
func GetObjectStore() *helpers.GCSStore       { return objectStore }
func SetRabbitPub(p *helpers.RabbitPublisher) { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitPublisher  { return rabbitPub }
func SetES(x *helpers.ESIndexer)              { esIndexer = x }
func GetES() *helpers.ESIndexer               { return esIndexer }

// Ready reports every required singleton that has not been set.
func Ready() error {
	var errs []error
	if cfg == nil {
		errs = append(errs, errors.New("container: config not set"))
	}
	if logger == nil {
		errs = append(errs, errors.New("container: logger not set"))
	}
	if pgPool == nil {
		errs = append(errs, errors.New("container: postgres pool not set"))
	}
	if redisClient == nil {
		errs = append(errs, errors.New("container: redis client not set"))
	}
	if jwtManager == nil {
		errs = append(errs, errors.New("container: jwt manager not set"))
	}
	return errors.Join(errs...)
}

// Reset clears every singleton.
func Reset() {
	cfg, logger, pgPool, redisClient, jwtManager = nil, nil, nil, nil, nil
	objectStore, rabbitPub, esIndexer = nil, nil, nil
}
