package calculator

import (
	"context"
	"errors"

	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"

	"retail-insights/pkg/forecast"
	"retail-insights/pkg/models"
	"retail-insights/pkg/snapshot"
)

// ReportConfig paramètre le rapport batch.
type ReportConfig struct {
	Products []string // vide → top produits de la fenêtre
	Model    string
	Steps    int
	Window   int
	Verbose  bool
	Logger   *logrus.Logger
}

const defaultReportProducts = 10

// RunForecastReport prévoit chaque produit ; un échec par produit est noté dans sa ligne
// sans interrompre le rapport. Seules les erreurs de configuration arrêtent le calcul.
func RunForecastReport(ctx context.Context, snap *snapshot.Snapshot, cfg ReportConfig) ([]models.ReportLine, error) {
	if cfg.Model == "" {
		cfg.Model = forecast.ShortName
	}
	if _, err := forecast.New(cfg.Model, forecast.Options{}); err != nil {
		return nil, err
	}
	products := cfg.Products
	if len(products) == 0 {
		window := cfg.Window
		if window <= 0 {
			window = DefaultWindowDays
		}
		top, err := TopProducts(snap, window, defaultReportProducts)
		if err != nil {
			return nil, err
		}
		for _, p := range top {
			products = append(products, p.Description)
		}
	}

	bar := progressbar.Default(int64(len(products)))
	results := make([]models.ReportLine, 0, len(products))
	for _, product := range products {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		line := models.ReportLine{Product: product}
		res, err := ForecastProduct(snap, models.ForecastRequest{Product: product, Model: cfg.Model, Steps: cfg.Steps})
		switch {
		case errors.Is(err, models.ErrConfiguration):
			return nil, err
		case err != nil:
			line.Error = err.Error()
		default:
			line.Description = res.ProductDescription
			line.Model = res.ModelUsed
			line.Forecast = res.Values
			for _, v := range res.Values {
				line.Total += v
			}
			line.Total = models.Round2(line.Total)
		}
		results = append(results, line)

		_ = bar.Add(1)
		if cfg.Verbose && cfg.Logger != nil {
			cfg.Logger.WithFields(logrus.Fields{
				"product": product,
				"total":   line.Total,
				"error":   line.Error,
			}).Info("product forecast")
		}
	}
	return results, nil
}
