// Command devtoken mints a bearer token for local requests against the API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	pkgAuth "github.com/ghassen-kharrat/barbachli-sub000/pkg/auth"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/config"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/enums"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/logger"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "devtoken", Format: "console", Output: os.Stderr})
	ctx := context.Background()
	_ = godotenv.Load()

	rawUser := flag.String("user", "", "user id (uuid); random when empty")
	rawRole := flag.String("role", string(enums.UserRoleCustomer), "customer|admin")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}
	if cfg.App.IsProd() {
		logg.Error(ctx, "refusing to mint tokens", fmt.Errorf("%s is %q", config.EnvAppEnv, cfg.App.Env))
		os.Exit(1)
	}

	userID := uuid.New()
	if *rawUser != "" {
		userID, err = uuid.Parse(*rawUser)
		if err != nil {
			logg.Error(ctx, "invalid -user", err)
			os.Exit(1)
		}
	}
	role, err := enums.ParseUserRole(*rawRole)
	if err != nil {
		logg.Error(ctx, "invalid -role", err)
		os.Exit(1)
	}

	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{UserID: userID, Role: role})
	if err != nil {
		logg.Error(ctx, "failed to mint token", err)
		os.Exit(1)
	}

	logg.Info(logg.WithFields(ctx, map[string]any{"user_id": userID.String(), "role": role}), "token minted")
	fmt.Println(token)
}
