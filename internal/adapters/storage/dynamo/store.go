// Package dynamo backs the keyed-store contract with a single DynamoDB
// table: composite primary key PK/SK plus the GSI1 recency index.
package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/PabloGalante/verba/internal/adapters/storage/keyed"
)

type Store struct {
	client    *dynamodb.Client
	tableName string
}

// NewStore creates a DynamoDB-backed store. An endpoint override targets
// dynamodb-local for development; leave it empty in production.
func NewStore(ctx context.Context, tableName, region, endpoint string) (*Store, error) {
	if tableName == "" {
		return nil, fmt.Errorf("tableName is required for DynamoDB store")
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	client := dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	return &Store{client: client, tableName: tableName}, nil
}

func (s *Store) Put(ctx context.Context, item keyed.Item) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("dynamo Put marshal: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("dynamo Put: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, pk, sk string) (keyed.Item, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key:       itemKeyAttrs(pk, sk),
	})
	if err != nil {
		return nil, fmt.Errorf("dynamo Get: %w", err)
	}
	if out.Item == nil {
		return nil, nil
	}

	var item keyed.Item
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("dynamo Get unmarshal: %w", err)
	}
	return item, nil
}

func (s *Store) Query(ctx context.Context, q keyed.QuerySpec) ([]keyed.Item, error) {
	input := &dynamodb.QueryInput{
		TableName: aws.String(s.tableName),
	}

	names := map[string]string{}
	values := map[string]types.AttributeValue{}

	if q.Index != "" {
		input.IndexName = aws.String(q.Index)
		input.KeyConditionExpression = aws.String("#gsi1pk = :gsi1pk")
		names["#gsi1pk"] = keyed.AttrGSI1PK
		values[":gsi1pk"] = &types.AttributeValueMemberS{Value: q.IndexPK}
	} else {
		cond := "#pk = :pk"
		names["#pk"] = keyed.AttrPK
		values[":pk"] = &types.AttributeValueMemberS{Value: q.PK}
		if q.SKPrefix != "" {
			cond += " AND begins_with(#sk, :skPrefix)"
			names["#sk"] = keyed.AttrSK
			values[":skPrefix"] = &types.AttributeValueMemberS{Value: q.SKPrefix}
		}
		input.KeyConditionExpression = aws.String(cond)
	}

	input.ExpressionAttributeNames = names
	input.ExpressionAttributeValues = values
	input.ScanIndexForward = aws.Bool(!q.Descending)
	if q.Limit > 0 {
		input.Limit = aws.Int32(int32(q.Limit))
	}

	out, err := s.client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("dynamo Query: %w", err)
	}

	var items []keyed.Item
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
		return nil, fmt.Errorf("dynamo Query unmarshal: %w", err)
	}
	return items, nil
}

// BatchDelete issues one BatchWriteItem per chunk of 25 keys. A failed
// chunk aborts the rest; earlier chunks stay deleted.
func (s *Store) BatchDelete(ctx context.Context, keys []keyed.ItemKey) error {
	for start := 0; start < len(keys); start += keyed.MaxBatchDelete {
		end := min(start+keyed.MaxBatchDelete, len(keys))

		requests := make([]types.WriteRequest, 0, end-start)
		for _, key := range keys[start:end] {
			requests = append(requests, types.WriteRequest{
				DeleteRequest: &types.DeleteRequest{
					Key: itemKeyAttrs(key.PK, key.SK),
				},
			})
		}

		_, err := s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{
				s.tableName: requests,
			},
		})
		if err != nil {
			return fmt.Errorf("dynamo BatchDelete: %w", err)
		}
	}
	return nil
}

func itemKeyAttrs(pk, sk string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		keyed.AttrPK: &types.AttributeValueMemberS{Value: pk},
		keyed.AttrSK: &types.AttributeValueMemberS{Value: sk},
	}
}
