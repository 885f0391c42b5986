package aggregate

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Aggregator runs an aggregation. *mongo.Collection satisfies it.
type Aggregator interface {
	Aggregate(ctx context.Context, pipeline interface{}, opts ...*options.AggregateOptions) (*mongo.Cursor, error)
}

const (
	docsFacet  = "docs"
	totalFacet = "total"
	countField = "count"
)

type facetResult[T any] struct {
	Docs  []T `bson:"docs"`
	Total []struct {
		Count int64 `bson:"count"`
	} `bson:"total"`
}

// Paginate runs p and returns the requested page. The page slice and the total
// count come back from a single round trip through a $facet stage.
func Paginate[T any](ctx context.Context, coll Aggregator, p Pipeline, opts PageOptions) (*Page[T], error) {
	opts = opts.normalize()
	full := p.Append(Facet{Facets: []FacetField{
		{Name: docsFacet, Pipeline: New(Skip(opts.Skip()), Limit(opts.Limit))},
		{Name: totalFacet, Pipeline: New(Count(countField))},
	}})

	results, err := All[facetResult[T]](ctx, coll, full)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return NewPage[T](nil, 0, opts), nil
	}

	var total int64
	if len(results[0].Total) > 0 {
		total = results[0].Total[0].Count
	}
	return NewPage(results[0].Docs, total, opts), nil
}

// All runs p and decodes every result document.
func All[T any](ctx context.Context, coll Aggregator, p Pipeline) ([]T, error) {
	cursor, err := coll.Aggregate(ctx, p.Build())
	if err != nil {
		return nil, fmt.Errorf("aggregate: %w", err)
	}
	defer cursor.Close(ctx)

	var out []T
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode aggregate: %w", err)
	}
	return out, nil
}

// First runs p and decodes the first result. found is false when p yields nothing.
func First[T any](ctx context.Context, coll Aggregator, p Pipeline) (result T, found bool, err error) {
	rows, err := All[T](ctx, coll, p.Append(Limit(1)))
	if err != nil || len(rows) == 0 {
		return result, false, err
	}
	return rows[0], true, nil
}
