package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/justsurfingit/job-portal/internal/apperrors"
	"github.com/justsurfingit/job-portal/internal/models"
)

const (
	JobsCollection         = "jobs"
	ApplicationsCollection = "applications"
)

type MongoJobRepository struct {
	Coll *mongo.Collection
}

func NewMongoJobRepository(db *mongo.Database) *MongoJobRepository {
	return &MongoJobRepository{Coll: db.Collection(JobsCollection)}
}

func (r *MongoJobRepository) Insert(ctx context.Context, job *models.Job) (string, error) {
	oid := primitive.NewObjectID()
	doc := bson.M(job.Fields.Clone())
	doc[models.FieldID] = oid

	if _, err := r.Coll.InsertOne(ctx, doc); err != nil {
		return "", apperrors.Internal("insert job", err)
	}
	job.ID = oid.Hex()
	return job.ID, nil
}

func (r *MongoJobRepository) List(ctx context.Context, filter JobFilter) ([]models.Job, error) {
	query := bson.M{}
	if filter.HREmail != "" {
		query[models.FieldHREmail] = filter.HREmail
	}

	docs, err := findAll(ctx, r.Coll, query)
	if err != nil {
		return nil, apperrors.Internal("list jobs", err)
	}
	jobs := make([]models.Job, 0, len(docs))
	for _, doc := range docs {
		jobs = append(jobs, jobFromBSON(doc))
	}
	return jobs, nil
}

func (r *MongoJobRepository) FindByID(ctx context.Context, id string) (*models.Job, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.InvalidID(id, err)
	}

	var doc bson.M
	err = r.Coll.FindOne(ctx, bson.M{models.FieldID: oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.NotFound("job not found").WithDetail("id", id)
	}
	if err != nil {
		return nil, apperrors.Internal("find job", err)
	}
	job := jobFromBSON(doc)
	return &job, nil
}

func (r *MongoJobRepository) FindByIDs(ctx context.Context, ids []string) (map[string]models.Job, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range uniqueIDs(ids) {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}

	out := make(map[string]models.Job, len(oids))
	if len(oids) == 0 {
		return out, nil
	}

	docs, err := findAll(ctx, r.Coll, bson.M{models.FieldID: bson.M{"$in": oids}})
	if err != nil {
		return nil, apperrors.Internal("find jobs", err)
	}
	for _, doc := range docs {
		job := jobFromBSON(doc)
		out[job.ID] = job
	}
	return out, nil
}

type MongoApplicationRepository struct {
	Coll *mongo.Collection
}

func NewMongoApplicationRepository(db *mongo.Database) *MongoApplicationRepository {
	return &MongoApplicationRepository{Coll: db.Collection(ApplicationsCollection)}
}

func (r *MongoApplicationRepository) Insert(ctx context.Context, app *models.Application) (string, error) {
	oid := primitive.NewObjectID()
	doc := bson.M(app.Fields.Clone())
	doc[models.FieldID] = oid
	if app.Status != nil {
		doc[models.FieldStatus] = *app.Status
	}

	if _, err := r.Coll.InsertOne(ctx, doc); err != nil {
		return "", apperrors.Internal("insert application", err)
	}
	app.ID = oid.Hex()
	return app.ID, nil
}

func (r *MongoApplicationRepository) List(ctx context.Context, filter ApplicationFilter) ([]models.Application, error) {
	query := bson.M{}
	if filter.Email != "" {
		query[models.FieldEmail] = filter.Email
	}
	if filter.JobID != "" {
		query[models.FieldJobID] = filter.JobID
	}

	docs, err := findAll(ctx, r.Coll, query)
	if err != nil {
		return nil, apperrors.Internal("list applications", err)
	}
	apps := make([]models.Application, 0, len(docs))
	for _, doc := range docs {
		apps = append(apps, applicationFromBSON(doc))
	}
	return apps, nil
}

func (r *MongoApplicationRepository) CountByJobIDs(ctx context.Context, jobIDs []string) (map[string]int64, error) {
	out := make(map[string]int64, len(jobIDs))
	ids := uniqueIDs(jobIDs)
	if len(ids) == 0 {
		return out, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: models.FieldJobID, Value: bson.D{{Key: "$in", Value: ids}}}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$" + models.FieldJobID},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cursor, err := r.Coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, apperrors.Internal("count applications", err)
	}

	var rows []struct {
		JobID string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, apperrors.Internal("count applications", err)
	}
	for _, row := range rows {
		out[row.JobID] = row.Count
	}
	return out, nil
}

func (r *MongoApplicationRepository) UpdateStatus(ctx context.Context, id, status string) (UpdateCounts, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return UpdateCounts{}, apperrors.InvalidID(id, err)
	}

	res, err := r.Coll.UpdateOne(ctx,
		bson.M{models.FieldID: oid},
		bson.M{"$set": bson.M{models.FieldStatus: status}},
	)
	if err != nil {
		return UpdateCounts{}, apperrors.Internal("update application status", err)
	}
	return UpdateCounts{Matched: res.MatchedCount, Modified: res.ModifiedCount}, nil
}

func findAll(ctx context.Context, coll *mongo.Collection, query bson.M) ([]bson.M, error) {
	cursor, err := coll.Find(ctx, query)
	if err != nil {
		return nil, err
	}
	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func jobFromBSON(doc bson.M) models.Job {
	fields := toDocument(doc)
	job := models.Job{ID: idString(doc[models.FieldID]), Fields: fields}
	delete(fields, models.FieldID)
	job.HREmail, _ = fields.String(models.FieldHREmail)
	return job
}

func applicationFromBSON(doc bson.M) models.Application {
	fields := toDocument(doc)
	app := models.Application{ID: idString(doc[models.FieldID]), Fields: fields}
	delete(fields, models.FieldID)
	app.JobID, _ = fields.String(models.FieldJobID)
	app.Email, _ = fields.String(models.FieldEmail)
	if status, ok := fields.String(models.FieldStatus); ok {
		app.Status = &status
		delete(fields, models.FieldStatus)
	}
	return app
}

func idString(v any) string {
	switch id := v.(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	case nil:
		return ""
	default:
		return fmt.Sprint(id)
	}
}

func toDocument(doc bson.M) models.Document {
	out := make(models.Document, len(doc))
	for k, v := range doc {
		out[k] = plainValue(v)
	}
	return out
}

// plainValue converts driver types into values encoding/json renders the same
// way the posted payload looked.
func plainValue(v any) any {
	switch t := v.(type) {
	case bson.M:
		return map[string]any(toDocument(t))
	case bson.D:
		out := make(map[string]any, len(t))
		for _, e := range t {
			out[e.Key] = plainValue(e.Value)
		}
		return out
	case bson.A:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = plainValue(e)
		}
		return out
	case primitive.ObjectID:
		return t.Hex()
	case primitive.DateTime:
		return t.Time().UTC()
	default:
		return v
	}
}
