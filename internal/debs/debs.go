package deps

import (
	"log"

	"github.com/breatheclean/breatheclean_api/config"
	"github.com/breatheclean/breatheclean_api/internal/db"
	"github.com/breatheclean/breatheclean_api/internal/discovery"
	"github.com/breatheclean/breatheclean_api/internal/http/mapbox"
	"github.com/breatheclean/breatheclean_api/util/storage"
	"github.com/breatheclean/breatheclean_api/util/websockets"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Dependencies struct {
	DB         *db.DB
	Cloudinary *storage.Cloudinary
	Maps       *mapbox.Client
	Discovery  *discovery.Service
	MapView    *websockets.MapViewManager
}

func New(cfg *config.Config) *Dependencies {
	database, err := db.New(cfg.Dsn)
	if err != nil {
		log.Panicln("failed to connect to database", "error", err)
	}

	cloudinary := storage.NewCloudinary(cfg)
	maps := mapbox.NewClient(cfg.MapboxToken)
	disc := discovery.NewService(maps, nil)
	mapView := websockets.NewMapViewManager(disc)

	deps := Dependencies{
		DB:         database,
		Cloudinary: cloudinary,
		Maps:       maps,
		Discovery:  disc,
		MapView:    mapView,
	}
	return &deps
}

func (d *Dependencies) Pool() *pgxpool.Pool {
	return d.DB.Pool()
}
