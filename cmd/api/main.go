package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/bookstore-service/cmd/api/book"
	"github.com/bookstore-service/cmd/api/database"
	bookhttp "github.com/bookstore-service/cmd/api/http"
	"github.com/bookstore-service/cmd/api/notifications"

	"github.com/golang-migrate/migrate/v4"
	"github.com/joho/godotenv"
)

func main() {
	err := run()
	if err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func run() error {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using environment variables")
	}

	//connect to db:
	connStr := os.Getenv("DATABASE_URL")
	dbObject, dialect, err := database.ConnectDb(connStr)
	if err != nil {
		return fmt.Errorf("connecting with db: %w", err)
	}

	defer dbObject.Close()

	//apply migrations:
	store := database.NewStore(dbObject, dialect)
	err = database.MigrationUp(store)
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrating: %w", err)
	}

	//notifications setup:
	enableNotifications := os.Getenv("NOTIFICATIONS_ENABLED") == "true"
	notificationsBaseURL := os.Getenv("NOTIFICATIONS_BASE_URL")
	notificationsTimeout := 5 * time.Second
	notificationsTimeoutStr := os.Getenv("NOTIFICATIONS_TIMEOUT") //This ENV must be written with a unit suffix, like seconds
	if notificationsTimeoutStr != "" {
		notificationsTimeout, err = time.ParseDuration(notificationsTimeoutStr)
		if err != nil {
			return fmt.Errorf("getting notifications timeout from env: %w", err)
		}
	}
	ntfy := notifications.NewNtfy(enableNotifications, notificationsBaseURL, &http.Client{})

	reqTimeoutStr := os.Getenv("HTTP_REQUEST_TIMEOUT") //This ENV must be written with a unit suffix, like seconds
	if reqTimeoutStr != "" {
		bookhttp.RequestTimeout, err = time.ParseDuration(reqTimeoutStr)
		if err != nil {
			return fmt.Errorf("getting request timeout from env: %w", err)
		}
	}

	bookService := book.NewService(store, ntfy, notificationsTimeout)
	bookHandler := bookhttp.NewBookHandler(bookService)

	//create and init http server:
	port := 8080
	portStr := os.Getenv("PORT")
	if portStr != "" {
		port, err = strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("getting port from env: %w", err)
		}
	}

	server := bookhttp.NewServer(bookhttp.ServerConfig{
		Port:     port,
		Title:    envOrDefault("API_TITLE", "BookStore API"),
		Version:  envOrDefault("API_VERSION", "1.0.0"),
		RootPath: envOrDefault("ROOT_PATH", "/"),
	}, bookHandler)

	go func() (err error) {
		err = server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("unexpected http server error: %w", err)
		}
		return nil
	}()

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM)
	<-sc

	ctx, shutdownRelease := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownRelease()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("HTTP shutdown error: %w", err)
	}
	log.Println("Graceful shutdown complete.")
	return err
}

func envOrDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
