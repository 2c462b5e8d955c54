package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	"github.com/tagmyidea/tagmyidea-web/pkg/api"
	"github.com/tagmyidea/tagmyidea-web/pkg/client"
	"github.com/tagmyidea/tagmyidea-web/pkg/db"
	"github.com/tagmyidea/tagmyidea-web/pkg/session"
	"github.com/tagmyidea/tagmyidea-web/pkg/util"
)

func main() {
	godotenv.Load()

	util.InitConfig()

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:     os.Getenv("SENTRY_DSN"),
		Release: util.Config.Version,
	}); err != nil {
		log.Fatal(err)
	}
	defer sentry.Flush(time.Second * 5)

	if err := db.InitDB(util.Config.DbPath); err != nil {
		sentry.CaptureException(err)
		log.Fatal(err)
	}

	ctx := context.Background()

	if err := db.InitS3(ctx); err != nil {
		sentry.CaptureException(err)
		log.Fatal(err)
	}

	storage := db.NewKV(db.Db)
	c := client.New(
		util.Config.ApiBaseUrl,
		storage,
		client.WithTimeout(util.Config.RequestTimeout),
		client.WithJobInterval(util.Config.JobInterval),
	)

	sess := session.New(c, storage)
	if err := sess.Init(ctx); err != nil {
		slog.Warn("Could not restore session", "err", err)
	}

	if sess.User() != nil {
		go c.TriggerJobs(ctx)
	}

	r := api.Router(sess, c)

	sentry.CaptureMessage("Starting web client")

	log.Printf("Starting server at %s\n", util.Config.ListenAddr)
	if err := http.ListenAndServe(util.Config.ListenAddr, r); err != nil {
		sentry.CaptureException(err)
		log.Print(err)
	}
}
