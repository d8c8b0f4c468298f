package dynamo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// TablePreferences holds one item per agent location.
const TablePreferences = "quote_carrier_preferences"

const awsTableWaitTimeout = 2 * time.Minute

// EnsureTables creates the preferences table if it doesn't exist.
func EnsureTables(ctx context.Context, client *dynamodb.Client, log *slog.Logger) error {
	exists, err := tableExists(ctx, client, TablePreferences)
	if err != nil {
		return fmt.Errorf("check table %s: %w", TablePreferences, err)
	}
	if exists {
		log.Info("table exists", "table", TablePreferences)
		return nil
	}

	log.Info("creating table", "table", TablePreferences)
	_, err = client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(TablePreferences),
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("location_id"), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("location_id"), KeyType: types.KeyTypeHash},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	if err != nil {
		var inUse *types.ResourceInUseException
		if errors.As(err, &inUse) {
			return nil // lost a create race, table is there
		}
		return fmt.Errorf("create table %s: %w", TablePreferences, err)
	}

	waiter := dynamodb.NewTableExistsWaiter(client)
	if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(TablePreferences),
	}, awsTableWaitTimeout); err != nil {
		return fmt.Errorf("wait for table %s: %w", TablePreferences, err)
	}
	return nil
}

func tableExists(ctx context.Context, client *dynamodb.Client, name string) (bool, error) {
	_, err := client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(name),
	})
	if err != nil {
		var nf *types.ResourceNotFoundException
		if errors.As(err, &nf) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
