package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/takarapp/accounts-api/internal/domain"
)

// ResetCodeRepo manages password reset codes.
// PK: user_id, so Put replaces any previously issued code for the same user.
type ResetCodeRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewResetCodeRepo(client *dynamodb.Client, tableName string) *ResetCodeRepo {
	return &ResetCodeRepo{client: client, tableName: tableName}
}

func (r *ResetCodeRepo) Put(ctx context.Context, c *domain.PasswordResetCode) error {
	item, err := attributevalue.MarshalMap(c)
	if err != nil {
		return fmt.Errorf("marshal reset code: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *ResetCodeRepo) Get(ctx context.Context, userID string) (*domain.PasswordResetCode, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("user_id", userID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("reset code not found: %w", domain.ErrNotFound)
	}
	var c domain.PasswordResetCode
	if err := attributevalue.UnmarshalMap(out.Item, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ResetCodeRepo) Delete(ctx context.Context, userID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("user_id", userID),
	})
	return err
}
