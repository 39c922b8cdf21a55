package app

import (
	"github.com/kinokreker/core/internal/config"
	http_init "github.com/kinokreker/core/internal/delivery/http/init"
	http_auth_middleware "github.com/kinokreker/core/internal/delivery/http/middleware/auth"
	http_requestid_middleware "github.com/kinokreker/core/internal/delivery/http/middleware/requestid"
	http_movie "github.com/kinokreker/core/internal/delivery/http/movie"
	http_rating "github.com/kinokreker/core/internal/delivery/http/rating"
	http_room "github.com/kinokreker/core/internal/delivery/http/room"
	http_swagger "github.com/kinokreker/core/internal/delivery/http/swagger"
	ws_room "github.com/kinokreker/core/internal/delivery/ws/room"
	infra_kinopoisk "github.com/kinokreker/core/internal/infra/kinopoisk"
	infra_pg_init "github.com/kinokreker/core/internal/infra/postgres/init"
	infra_postgres_movie "github.com/kinokreker/core/internal/infra/postgres/movie"
	infra_postgres_rating "github.com/kinokreker/core/internal/infra/postgres/rating"
	infra_postgres_room "github.com/kinokreker/core/internal/infra/postgres/room"
	infra_postgres_user "github.com/kinokreker/core/internal/infra/postgres/user"
	infra_posters_fs "github.com/kinokreker/core/internal/infra/posters/fs"
	infra_posters_s3 "github.com/kinokreker/core/internal/infra/posters/s3"
	infra_redis_init "github.com/kinokreker/core/internal/infra/redis/init"
	infra_user_cache "github.com/kinokreker/core/internal/infra/redis/usercache"
	usecase_auth "github.com/kinokreker/core/internal/usecase/auth"
	usecase_movie "github.com/kinokreker/core/internal/usecase/movie"
	usecase_rating "github.com/kinokreker/core/internal/usecase/rating"
	usecase_room "github.com/kinokreker/core/internal/usecase/room"
)

const posterPublicPrefix = "/static/film_posters"

func Go(cfg *config.Config) {
	redisConn := infra_redis_init.MustEstablishConn(cfg.Redis)
	pgConn := infra_pg_init.MustEstablishConn(cfg.Postgres)
	infra_pg_init.MustApplySchema(pgConn)

	var posterStorage usecase_movie.PosterStorage
	serveLocalPosters := cfg.Posters.Storage != "s3"
	if serveLocalPosters {
		fsStorage, err := infra_posters_fs.New(cfg.Posters.Dir, posterPublicPrefix)
		if err != nil {
			panic(err)
		}
		posterStorage = fsStorage
	} else {
		s3conn := infra_posters_s3.MustEstablishConn(cfg.Posters)
		posterStorage = infra_posters_s3.New(cfg.Posters.Bucket, s3conn, cfg.Posters.Prefix)
	}

	userRepository := infra_postgres_user.New(pgConn)
	roomRepository := infra_postgres_room.New(pgConn)
	movieRepository := infra_postgres_movie.New(pgConn)
	ratingRepository := infra_postgres_rating.New(pgConn)

	userCache := infra_user_cache.New(redisConn, "user_cache")
	kinopoiskClient := infra_kinopoisk.New(cfg.Kinopoisk)

	authUC := usecase_auth.New(userRepository, userCache, 0 /* default TTL */)
	roomUC := usecase_room.New(roomRepository)
	ratingUC := usecase_rating.New(ratingRepository, roomUC)
	movieUC := usecase_movie.New(movieRepository, posterStorage, kinopoiskClient, roomUC)

	authMiddleware := http_auth_middleware.New(authUC)

	hub := ws_room.NewHub()
	go hub.Run()

	controllerPool := http_init.NewControllerPool(http_requestid_middleware.New())
	controllerPool.Add(http_swagger.New())
	controllerPool.Add(http_room.New(roomUC, ratingUC, authMiddleware, hub))
	controllerPool.Add(http_movie.New(movieUC, authMiddleware, hub))
	controllerPool.Add(http_rating.New(ratingUC, authMiddleware, hub))
	controllerPool.Add(ws_room.NewController(hub, authMiddleware))

	controllerPool.Register()
	if serveLocalPosters {
		controllerPool.ServeStatic(posterPublicPrefix, cfg.Posters.Dir)
	}
	controllerPool.RunAll(cfg.HTTP.Port)
}
