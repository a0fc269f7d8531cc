package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Server      struct {
		Port            string `env:"PORT" envDefault:"3000"`
		ReadTimeout     int    `env:"READ_TIMEOUT" envDefault:"10"`
		WriteTimeout    int    `env:"WRITE_TIMEOUT" envDefault:"60"`
		IdleTimeout     int    `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
	} `envPrefix:"SERVER_"`
	Database struct {
		DSN            string `env:"DSN,required"`
		ConnectTimeout int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		QueryTimeout   int    `env:"QUERY_TIMEOUT" envDefault:"10"`
		MaxOpenConns   int    `env:"MAX_OPEN_CONNS" envDefault:"10"`
		MaxIdleConns   int    `env:"MAX_IDLE_CONNS" envDefault:"10"`
		MaxIdleTime    int    `env:"MAX_IDLE_TIME" envDefault:"60"`
	} `envPrefix:"DATABASE_"`
	Admin struct {
		Username string `env:"USERNAME" envDefault:"admin"`
		Password string `env:"PASSWORD,required"`
		FullName string `env:"FULL_NAME" envDefault:"管理员"`
	} `envPrefix:"ADMIN_"`
	JWT struct {
		Expiration int    `env:"EXPIRATION" envDefault:"24"` // 小时
		Secret     string `env:"SECRET,required"`
	} `envPrefix:"JWT_"`
	Email struct {
		SMTP struct {
			Username    string `env:"USERNAME,required"`
			Password    string `env:"PASSWORD,required"`
			Host        string `env:"HOST,required"`
			Port        int    `env:"PORT" envDefault:"465"`
			DialTimeout int    `env:"DIAL_TIMEOUT" envDefault:"10"`
		} `envPrefix:"SMTP_"`
	} `envPrefix:"EMAIL_"`
	RabbitMQ struct {
		DSN            string `env:"DSN,required"`
		PublishTimeout int    `env:"PUBLISH_TIMEOUT" envDefault:"10"`
	} `envPrefix:"RABBITMQ_"`
	Redis struct {
		Host           string `env:"HOST" envDefault:"localhost"`
		Port           int    `env:"PORT" envDefault:"6379"`
		Password       string `env:"PASSWORD"`
		ConnectTimeout int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
	} `envPrefix:"REDIS_"`
	Scheduler SchedulerConfig `envPrefix:"SCHEDULER_"`
}

// SchedulerConfig: 参数表单的默认值和取值范围，以及运行限制
type SchedulerConfig struct {
	CrossoverRate     float64 `env:"CROSSOVER_RATE" envDefault:"0.8"`
	MinCrossoverRate  float64 `env:"MIN_CROSSOVER_RATE" envDefault:"0"`
	MaxCrossoverRate  float64 `env:"MAX_CROSSOVER_RATE" envDefault:"0.95"`
	MutationRate      float64 `env:"MUTATION_RATE" envDefault:"0.02"`
	MinMutationRate   float64 `env:"MIN_MUTATION_RATE" envDefault:"0.01"`
	MaxMutationRate   float64 `env:"MAX_MUTATION_RATE" envDefault:"0.05"`
	PopulationSize    int     `env:"POPULATION_SIZE" envDefault:"500"`
	MinPopulationSize int     `env:"MIN_POPULATION_SIZE" envDefault:"100"`
	MaxPopulationSize int     `env:"MAX_POPULATION_SIZE" envDefault:"1000"`
	Generations       int     `env:"GENERATIONS" envDefault:"100"`
	MinGenerations    int     `env:"MIN_GENERATIONS" envDefault:"10"`
	MaxGenerations    int     `env:"MAX_GENERATIONS" envDefault:"500"`
	RunTimeout        int     `env:"RUN_TIMEOUT" envDefault:"30"`     // 单次排期的超时时间（秒）
	RunsPerWindow     int     `env:"RUNS_PER_WINDOW" envDefault:"10"` // 每个客户端在一个窗口内允许的排期次数
	RunWindow         int     `env:"RUN_WINDOW" envDefault:"60"`      // 窗口长度（秒）
	JobQueue          string  `env:"JOB_QUEUE" envDefault:"scheduling_queue"`
	WorkerMetricsPort string  `env:"WORKER_METRICS_PORT" envDefault:"9091"`
}

// DefaultSchedulerConfig 返回不依赖环境变量的默认值，供命令行工具和测试使用
func DefaultSchedulerConfig() SchedulerConfig {
	cfg := SchedulerConfig{}
	// 只依赖 envDefault 标签，出错说明标签本身写错了
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: map[string]string{}}); err != nil {
		panic(fmt.Sprintf("scheduler 默认配置不合法: %v", err))
	}
	return cfg
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok {
			// 只返回第一个错误使得日志更清晰
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}

	if cfg.Scheduler.RunWindow <= 0 {
		return nil, fmt.Errorf("SCHEDULER_RUN_WINDOW 必须大于 0（当前为 %d）", cfg.Scheduler.RunWindow)
	}

	return cfg, nil
}
