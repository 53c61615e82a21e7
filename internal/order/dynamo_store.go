package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog/log"

	"github.com/kaipandu/pandu/backend-go/internal/models"
)

// DynamoDBClient defines the interface for DynamoDB operations we need
type DynamoDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

// DynamoStore keeps orders in a table keyed by orderId
type DynamoStore struct {
	client    DynamoDBClient
	tableName string
}

var _ Store = (*DynamoStore)(nil)

func NewDynamoStore(client DynamoDBClient, tableName string) *DynamoStore {
	return &DynamoStore{
		client:    client,
		tableName: tableName,
	}
}

// Save writes order unless an order with the same id exists
func (s *DynamoStore) Save(ctx context.Context, order models.OrderRecord) error {
	item, err := attributevalue.MarshalMap(order)
	if err != nil {
		return fmt.Errorf("marshaling order record: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(s.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(orderId)"),
	}

	if _, err := s.client.PutItem(ctx, input); err != nil {
		var conditionErr *types.ConditionalCheckFailedException
		if errors.As(err, &conditionErr) {
			return fmt.Errorf("%w: %s", ErrDuplicateOrder, order.OrderID)
		}
		return fmt.Errorf("putting order in DynamoDB: %w", err)
	}

	log.Debug().
		Str("order_id", order.OrderID).
		Str("table", s.tableName).
		Msg("Saved order to DynamoDB")

	return nil
}

// Get returns the stored order, or nil when it does not exist
func (s *DynamoStore) Get(ctx context.Context, orderID string) (*models.OrderRecord, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"orderId": &types.AttributeValueMemberS{Value: orderID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("getting order from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, nil
	}

	var record models.OrderRecord
	if err := attributevalue.UnmarshalMap(result.Item, &record); err != nil {
		return nil, fmt.Errorf("unmarshaling order record: %w", err)
	}
	return &record, nil
}
