package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/beka-birhanu/vinom-chase/api"
	"github.com/beka-birhanu/vinom-chase/api/identity"
	leaderboardapi "github.com/beka-birhanu/vinom-chase/api/leaderboard"
	levelapi "github.com/beka-birhanu/vinom-chase/api/level"
	"github.com/beka-birhanu/vinom-chase/config"
	"github.com/beka-birhanu/vinom-chase/config/tuning"
	"github.com/beka-birhanu/vinom-chase/game"
	"github.com/beka-birhanu/vinom-chase/game/maze"
	msgpack "github.com/beka-birhanu/vinom-chase/game/msgpack_encoder"
	pb "github.com/beka-birhanu/vinom-chase/game/pb_encoder"
	"github.com/beka-birhanu/vinom-chase/infrastruture/repo"
	"github.com/beka-birhanu/vinom-chase/infrastruture/sortedstorage"
	"github.com/beka-birhanu/vinom-chase/infrastruture/token"
	"github.com/beka-birhanu/vinom-chase/service"
	"github.com/beka-birhanu/vinom-chase/service/i"
	general_i "github.com/beka-birhanu/vinom-common/interfaces/general"
	logger "github.com/beka-birhanu/vinom-common/log"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Global variables for dependencies
var (
	mongoClient           *mongo.Client
	redisClient           *redis.Client
	playerRepo            i.PlayerRepo
	resultRepo            i.ResultRepo
	leaderboard           i.Leaderboard
	levelManager          i.LevelManager
	jwtTokenizer          i.Tokenizer
	authService           *service.Auth
	authController        api.Controller
	levelController       api.Controller
	leaderboardController api.Controller
	router                *api.Router
	appLogger             general_i.Logger
)

func mustLogger(name, color string) general_i.Logger {
	l, err := logger.New(name, color, os.Stdout)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating %s logger: %v", name, err))
		os.Exit(1)
	}
	return l
}

func initMongo(ctx context.Context) {
	uri := fmt.Sprintf("mongodb://%s:%s@%s:%v", config.Envs.DBUser, config.Envs.DBPassword, config.Envs.DBHost, config.Envs.DBPort)

	clientOptions := options.Client().ApplyURI(uri)
	var err error
	mongoClient, err = mongo.Connect(ctx, clientOptions)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Failed to connect to MongoDB: %v", err))
		os.Exit(1)
	}
	if err = mongoClient.Ping(ctx, nil); err != nil {
		appLogger.Error(fmt.Sprintf("MongoDB ping failed: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Connected to MongoDB")
}

func initRepos(ctx context.Context, client *mongo.Client) {
	var err error
	playerRepo, err = repo.NewPlayerRepo(ctx, client, config.Envs.DBName, "players")
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating player repository: %v", err))
		os.Exit(1)
	}
	resultRepo = repo.NewResultRepo(client, config.Envs.DBName, "results")
	appLogger.Info("Repositories initialized")
}

func initRedis(ctx context.Context) {
	redisClient = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", config.Envs.RedisHost, config.Envs.RedisPort),
		Password: config.Envs.RedisPassword,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		appLogger.Error(fmt.Sprintf("Redis ping failed: %v", err))
		os.Exit(1)
	}
	leaderboard = sortedstorage.NewRedisLeaderboard(redisClient, config.Envs.LeaderboardTTL)
	appLogger.Info("Connected to Redis")
}

func initJWTTokenizer() {
	jwtTokenizer = token.NewJwtService(config.Envs.JWTSecret, config.Envs.JWTIssuer)
	appLogger.Info("JWT Tokenizer initialized")
}

func initAuthService() {
	var err error
	authService, err = service.NewAuthService(playerRepo, jwtTokenizer)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating auth service: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Auth service initialized")
}

func loadTemplate(path string) (*maze.Template, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return maze.ParseTemplateText(string(data))
}

func initLevelManager() {
	t, err := tuning.Load(config.Envs.TuningFile)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Loading tuning: %v", err))
		os.Exit(1)
	}
	template, err := loadTemplate(config.Envs.TemplateFile)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Loading template: %v", err))
		os.Exit(1)
	}

	levelManager, err = service.NewLevelManager(&service.Config{
		Tuning:         t,
		Template:       template,
		PlayerRepo:     playerRepo,
		ResultRepo:     resultRepo,
		Leaderboard:    leaderboard,
		Logger:         mustLogger("LEVEL-MANAGER", config.ColorCyan),
		LevelLogger:    mustLogger("LEVEL", config.ColorYellow),
		StreamInterval: time.Duration(config.Envs.StreamInterval) * time.Millisecond,
		ExtendMargin:   config.Envs.ExtendMargin,
		Retention:      time.Duration(config.Envs.LevelRetention) * time.Second,
	})
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating level manager: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Level manager initialized")
}

func initControllers() {
	var err error
	authController = identity.NewIdentityServer(authService, playerRepo, resultRepo)
	levelController, err = levelapi.NewLevelController(levelManager, map[string]game.Encoder{
		levelapi.FormatProto:   &pb.Protobuf{},
		levelapi.FormatMsgPack: &msgpack.MsgPack{},
	}, mustLogger("LEVEL-API", config.ColorPurple))
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating level controller: %v", err))
		os.Exit(1)
	}
	leaderboardController = leaderboardapi.NewLeaderboardController(leaderboard)
	appLogger.Info("Controllers initialized")
}

func initRouter(pa i.PlayerAuthenticator) {
	gin.SetMode(config.Envs.GinMode)
	router = api.NewRouter(api.Config{
		Addr:                    fmt.Sprintf("%s:%v", config.Envs.HostIP, config.Envs.RESTPort),
		BaseURL:                 "/api",
		Controllers:             []api.Controller{authController, levelController, leaderboardController},
		AuthorizationMiddleware: identity.Authorize(pa),
	})
	appLogger.Info("Router initialized")
}

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel() // Ensure the context is always canceled

	// Initialize dependencies
	appLogger, _ = logger.New("APP", config.ColorGreen, os.Stdout)

	initMongo(ctx)
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()
	initRepos(ctx, mongoClient)

	initRedis(ctx)
	defer redisClient.Close()

	initJWTTokenizer()
	initAuthService()
	initLevelManager()
	initControllers()
	initRouter(authService)

	// Run HTTP server
	if err := router.Run(); err != nil {
		appLogger.Error(fmt.Sprintf("Starting server: %v", err))
		os.Exit(1)
	}
}
