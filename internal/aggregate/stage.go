// Package aggregate builds MongoDB aggregation pipelines from typed stages and
// paginates their results.
package aggregate

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Stage is one step of an aggregation pipeline.
type Stage interface {
	Document() bson.D
}

// Pipeline is an ordered list of stages.
type Pipeline []Stage

// New starts a pipeline from the given stages.
func New(stages ...Stage) Pipeline {
	return Pipeline(stages)
}

// Append returns a new pipeline with stages added at the end. The receiver is
// left untouched so a base pipeline can be shared.
func (p Pipeline) Append(stages ...Stage) Pipeline {
	out := make(Pipeline, 0, len(p)+len(stages))
	out = append(out, p...)
	return append(out, stages...)
}

// Build renders the pipeline for the driver.
func (p Pipeline) Build() mongo.Pipeline {
	out := make(mongo.Pipeline, 0, len(p))
	for _, stage := range p {
		out = append(out, stage.Document())
	}
	return out
}

func (p Pipeline) documents() bson.A {
	out := make(bson.A, 0, len(p))
	for _, stage := range p {
		out = append(out, stage.Document())
	}
	return out
}

// Match filters documents.
type Match struct {
	Filter bson.M
}

func (s Match) Document() bson.D {
	return bson.D{{Key: "$match", Value: s.Filter}}
}

// Lookup joins another collection. When Pipeline is set it runs against every
// joined document.
type Lookup struct {
	From         string
	LocalField   string
	ForeignField string
	As           string
	Pipeline     Pipeline
}

func (s Lookup) Document() bson.D {
	spec := bson.D{
		{Key: "from", Value: s.From},
		{Key: "localField", Value: s.LocalField},
		{Key: "foreignField", Value: s.ForeignField},
		{Key: "as", Value: s.As},
	}
	if len(s.Pipeline) > 0 {
		spec = append(spec, bson.E{Key: "pipeline", Value: s.Pipeline.documents()})
	}
	return bson.D{{Key: "$lookup", Value: spec}}
}

// Unwind flattens an array field. Path is given without the leading "$".
type Unwind struct {
	Path                       string
	PreserveNullAndEmptyArrays bool
}

func (s Unwind) Document() bson.D {
	if !s.PreserveNullAndEmptyArrays {
		return bson.D{{Key: "$unwind", Value: "$" + s.Path}}
	}
	return bson.D{{Key: "$unwind", Value: bson.D{
		{Key: "path", Value: "$" + s.Path},
		{Key: "preserveNullAndEmptyArrays", Value: true},
	}}}
}

// Group aggregates documents sharing the same ID expression. A nil ID groups
// everything into a single document.
type Group struct {
	ID     interface{}
	Fields bson.D
}

func (s Group) Document() bson.D {
	spec := bson.D{{Key: "_id", Value: s.ID}}
	spec = append(spec, s.Fields...)
	return bson.D{{Key: "$group", Value: spec}}
}

// Project reshapes documents.
type Project struct {
	Fields bson.D
}

func (s Project) Document() bson.D {
	return bson.D{{Key: "$project", Value: s.Fields}}
}

// Sort orders documents. Field order in Fields is significant.
type Sort struct {
	Fields bson.D
}

func (s Sort) Document() bson.D {
	return bson.D{{Key: "$sort", Value: s.Fields}}
}

// AddFields computes new fields.
type AddFields struct {
	Fields bson.D
}

func (s AddFields) Document() bson.D {
	return bson.D{{Key: "$addFields", Value: s.Fields}}
}

// Skip drops the first n documents.
type Skip int64

func (s Skip) Document() bson.D {
	return bson.D{{Key: "$skip", Value: int64(s)}}
}

// Limit keeps at most n documents.
type Limit int64

func (s Limit) Document() bson.D {
	return bson.D{{Key: "$limit", Value: int64(s)}}
}

// Count replaces the stream with a single document holding the count under
// the given field.
type Count string

func (s Count) Document() bson.D {
	return bson.D{{Key: "$count", Value: string(s)}}
}

// Facet runs several sub-pipelines over the same input.
type Facet struct {
	Facets []FacetField
}

// FacetField names one sub-pipeline of a Facet.
type FacetField struct {
	Name     string
	Pipeline Pipeline
}

func (s Facet) Document() bson.D {
	spec := make(bson.D, 0, len(s.Facets))
	for _, f := range s.Facets {
		spec = append(spec, bson.E{Key: f.Name, Value: f.Pipeline.documents()})
	}
	return bson.D{{Key: "$facet", Value: spec}}
}

// Exists is the filter {field: {$exists: true}}.
func Exists() bson.M {
	return bson.M{"$exists": true}
}

// Sum is the accumulator {$sum: expr}.
func Sum(expr interface{}) bson.M {
	return bson.M{"$sum": expr}
}

// Field turns a field name into a field path expression.
func Field(name string) string {
	return "$" + name
}
