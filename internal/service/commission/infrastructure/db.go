package infrastructure

import (
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"affiliatehub/internal/pkg/bootstrap"
	"affiliatehub/internal/pkg/logger"
)

// MySQLDSN 根据配置拼出 DSN，时间统一按 UTC 解析。
func MySQLDSN(cfg bootstrap.MySQLConfig) string {
	c := mysqldriver.NewConfig()
	c.Net = "tcp"
	c.Addr = cfg.Addr
	c.User = cfg.User
	c.Passwd = cfg.Password
	c.DBName = cfg.Database
	c.ParseTime = true
	c.Loc = time.UTC
	c.Params = map[string]string{"charset": "utf8mb4"}
	return c.FormatDSN()
}

// GormConfig 打开 TranslateError，唯一键冲突会被转换为 gorm.ErrDuplicatedKey。
func GormConfig() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
		Logger: gormlogger.New(logger.L(), gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	}
}

// OpenMySQL 建立连接池，按配置执行 AutoMigrate。
func OpenMySQL(cfg bootstrap.MySQLConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(MySQLDSN(cfg)), GormConfig())
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "open mysql %s", cfg.Addr)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, pkgerrors.Wrap(err, "get sql.DB")
	}
	if cfg.MaxOpen > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpen)
	}
	if cfg.MaxIdle > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdle)
	}
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if cfg.AutoMigrate {
		if err := Migrate(db); err != nil {
			return nil, err
		}
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	return pkgerrors.Wrap(db.AutoMigrate(AllModels()...), "auto migrate")
}
