// Package dynamo implements the visitor store on DynamoDB: one table keyed
// by (PK, SK) with a GSI on (CreatedBy, Status).
package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"github.com/gatehouse-vms/backend/internal/models"
	"github.com/gatehouse-vms/backend/internal/visitorstore"
)

// Config holds DynamoDB client and table settings.
type Config struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Table           string // e.g. VisitorRequest
	Index           string // GSI on (CreatedBy, Status), e.g. GSI_UserStatus
}

// Store is a visitorstore.Store backed by DynamoDB.
type Store struct {
	client *dynamodb.Client
	table  string
	index  string
}

var _ visitorstore.Store = (*Store)(nil)

// New creates a DynamoDB-backed store. Credentials fall back to the default
// chain when not set in cfg.
func New(ctx context.Context, cfg Config, logger *zap.Logger) (*Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID, cfg.SecretAccessKey, "",
		)))
	} else if logger != nil {
		logger.Warn("DynamoDB client using default credential chain (AWS_ACCESS_KEY_ID/AWS_SECRET_ACCESS_KEY not set)")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	if logger != nil {
		logger.Info("DynamoDB client ready", zap.String("table", cfg.Table), zap.String("region", cfg.Region))
	}
	return &Store{
		client: dynamodb.NewFromConfig(awsCfg),
		table:  cfg.Table,
		index:  cfg.Index,
	}, nil
}

func (s *Store) key(accessCode string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: models.VisitorPK(accessCode)},
		"SK": &types.AttributeValueMemberS{Value: models.VisitorSK},
	}
}

// Put inserts the record only if the access code is unused.
func (s *Store) Put(ctx context.Context, rec *models.VisitorRecord) error {
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("marshal visitor record: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return visitorstore.ErrCodeExists
		}
		return fmt.Errorf("put visitor record: %w", err)
	}
	return nil
}

// Get loads the record for an access code.
func (s *Store) Get(ctx context.Context, accessCode string) (*models.VisitorRecord, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key:       s.key(accessCode),
	})
	if err != nil {
		return nil, fmt.Errorf("get visitor record: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, visitorstore.ErrNotFound
	}
	var rec models.VisitorRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal visitor record: %w", err)
	}
	return &rec, nil
}

// Transition applies a status-guarded update and stamps the transition time.
func (s *Store) Transition(ctx context.Context, accessCode string, expect, next models.VisitorStatus, at string) (*models.VisitorRecord, error) {
	update := "SET #s = :next"
	values := map[string]types.AttributeValue{
		":next":   &types.AttributeValueMemberS{Value: string(next)},
		":expect": &types.AttributeValueMemberS{Value: string(expect)},
	}
	if attr := visitorstore.TimestampAttribute(next); attr != "" {
		update += ", " + attr + " = :t"
		values[":t"] = &types.AttributeValueMemberS{Value: at}
	}
	out, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.table),
		Key:                       s.key(accessCode),
		UpdateExpression:          aws.String(update),
		ConditionExpression:       aws.String("attribute_exists(PK) AND #s = :expect"),
		ExpressionAttributeNames:  map[string]string{"#s": "Status"},
		ExpressionAttributeValues: values,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			// Distinguish a vanished record from a lost status race.
			if _, getErr := s.Get(ctx, accessCode); errors.Is(getErr, visitorstore.ErrNotFound) {
				return nil, visitorstore.ErrNotFound
			}
			return nil, visitorstore.ErrConditionFailed
		}
		return nil, fmt.Errorf("transition visitor record: %w", err)
	}
	var rec models.VisitorRecord
	if err := attributevalue.UnmarshalMap(out.Attributes, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal updated record: %w", err)
	}
	return &rec, nil
}

// MarkExpired sets Status=Expired with no guard.
func (s *Store) MarkExpired(ctx context.Context, accessCode string) error {
	_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                aws.String(s.table),
		Key:                      s.key(accessCode),
		UpdateExpression:         aws.String("SET #s = :s"),
		ExpressionAttributeNames: map[string]string{"#s": "Status"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":s": &types.AttributeValueMemberS{Value: string(models.StatusExpired)},
		},
	})
	if err != nil {
		return fmt.Errorf("mark visitor expired: %w", err)
	}
	return nil
}

// Delete removes the record.
func (s *Store) Delete(ctx context.Context, accessCode string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.table),
		Key:       s.key(accessCode),
	})
	if err != nil {
		return fmt.Errorf("delete visitor record: %w", err)
	}
	return nil
}

// ListByCreator queries the (CreatedBy, Status) secondary index.
func (s *Store) ListByCreator(ctx context.Context, createdBy string, status models.VisitorStatus) ([]models.VisitorRecord, error) {
	out, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                aws.String(s.table),
		IndexName:                aws.String(s.index),
		KeyConditionExpression:   aws.String("CreatedBy = :c AND #s = :s"),
		ExpressionAttributeNames: map[string]string{"#s": "Status"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":c": &types.AttributeValueMemberS{Value: createdBy},
			":s": &types.AttributeValueMemberS{Value: string(status)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("query visitors by creator: %w", err)
	}
	var recs []models.VisitorRecord
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &recs); err != nil {
		return nil, fmt.Errorf("unmarshal visitor records: %w", err)
	}
	return recs, nil
}
