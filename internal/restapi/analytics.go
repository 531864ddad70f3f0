package restapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/montanaflynn/stats"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// validMetrics whitelists the grouping metrics the dynamic search accepts.
var validMetrics = map[string]bool{"avg": true, "sum": true, "count": true}

func (a *API) runAggregation(c echo.Context, pipeline mongo.Pipeline) error {
	docs, err := a.potions.Aggregate(c.Request().Context(), pipeline)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to run aggregation", nil)
	}
	return ok(c, docs)
}

func (a *API) distinctCategories(c echo.Context) error {
	return a.runAggregation(c, distinctCategoriesPipeline())
}

func (a *API) averageScoreByVendor(c echo.Context) error {
	return a.runAggregation(c, averageScoreByVendorPipeline())
}

func (a *API) averageScoreByCategory(c echo.Context) error {
	return a.runAggregation(c, averageScoreByCategoryPipeline())
}

func (a *API) strengthFlavorRatio(c echo.Context) error {
	return a.runAggregation(c, strengthFlavorRatioPipeline())
}

// searchAnalytics runs a caller-parameterized grouping. groupBy is not
// checked against the schema: grouping by an unknown field yields a single
// null-keyed group, which is legitimate output.
func (a *API) searchAnalytics(c echo.Context) error {
	groupBy := strings.TrimSpace(c.QueryParam("groupBy"))
	metric := strings.TrimSpace(c.QueryParam("metric"))
	field := strings.TrimSpace(c.QueryParam("field"))

	if groupBy == "" || !validMetrics[metric] || (metric != "count" && field == "") {
		return fail(c, http.StatusBadRequest, "INVALID_PARAMETERS",
			"groupBy and metric are required, metric must be one of avg, sum, count, and field is required unless metric is count", nil)
	}

	return a.runAggregation(c, searchPipeline(groupBy, metric, field))
}

// priceSummary computes catalog price statistics in-process.
func (a *API) priceSummary(c echo.Context) error {
	potions, err := a.potions.List(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query potions", nil)
	}
	if len(potions) == 0 {
		return ok(c, map[string]interface{}{"count": 0})
	}

	prices := make([]float64, 0, len(potions))
	for _, p := range potions {
		prices = append(prices, p.Price)
	}

	minPrice, _ := stats.Min(prices)
	maxPrice, _ := stats.Max(prices)
	mean, _ := stats.Mean(prices)
	median, _ := stats.Median(prices)
	stdDev, _ := stats.StandardDeviation(prices)

	return ok(c, map[string]interface{}{
		"count":   len(prices),
		"min":     minPrice,
		"max":     maxPrice,
		"mean":    mean,
		"median":  median,
		"std_dev": stdDev,
	})
}

func distinctCategoriesPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$unwind", Value: "$categories"}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$categories"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "category", Value: "$_id"},
			{Key: "count", Value: 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "category", Value: 1}}}},
	}
}

func averageScoreByVendorPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$vendor_id"},
			{Key: "avgScore", Value: bson.D{{Key: "$avg", Value: "$score"}}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "vendor_id", Value: "$_id"},
			{Key: "avgScore", Value: 1},
		}}},
	}
}

// averageScoreByCategoryPipeline unwinds first, so a multi-category potion
// contributes its score once per category.
func averageScoreByCategoryPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$unwind", Value: "$categories"}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$categories"},
			{Key: "avgScore", Value: bson.D{{Key: "$avg", Value: "$score"}}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "category", Value: "$_id"},
			{Key: "avgScore", Value: 1},
		}}},
	}
}

// strengthFlavorRatioPipeline reports a null ratio when flavor is exactly
// zero instead of a division error.
func strengthFlavorRatioPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "name", Value: 1},
			{Key: "ratio", Value: bson.D{{Key: "$cond", Value: bson.A{
				bson.D{{Key: "$eq", Value: bson.A{"$ratings.flavor", 0}}},
				nil,
				bson.D{{Key: "$divide", Value: bson.A{"$ratings.strength", "$ratings.flavor"}}},
			}}}},
		}}},
	}
}

func searchPipeline(groupBy, metric, field string) mongo.Pipeline {
	var value bson.D
	switch metric {
	case "count":
		// count groups documents and ignores any supplied field
		value = bson.D{{Key: "$sum", Value: 1}}
	case "avg":
		value = bson.D{{Key: "$avg", Value: "$" + field}}
	case "sum":
		value = bson.D{{Key: "$sum", Value: "$" + field}}
	}
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$" + groupBy},
			{Key: "value", Value: value},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: groupBy, Value: "$_id"},
			{Key: "value", Value: 1},
		}}},
	}
}
