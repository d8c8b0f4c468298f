package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/phsolutionsllc/replit-quote/internal/core"
)

type PreferenceItem struct {
	LocationID      string          `dynamodbav:"location_id"`
	FexPreferences  map[string]bool `dynamodbav:"fex_preferences"`
	TermPreferences map[string]bool `dynamodbav:"term_preferences"`
	UpdatedAt       string          `dynamodbav:"updated_at"`
}

func (i PreferenceItem) ToCore() core.CarrierPreference {
	return core.CarrierPreference{
		LocationID:      i.LocationID,
		FexPreferences:  i.FexPreferences,
		TermPreferences: i.TermPreferences,
	}
}

type PreferenceRepo struct {
	client *dynamodb.Client
	clock  func() time.Time
}

func NewPreferenceRepo(client *dynamodb.Client) *PreferenceRepo {
	return &PreferenceRepo{client: client, clock: time.Now}
}

// Get returns the stored preference, or a zero-value preference (no
// filter) for a location that never saved one.
func (r *PreferenceRepo) Get(ctx context.Context, locationID string) (core.CarrierPreference, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(TablePreferences),
		Key: map[string]types.AttributeValue{
			"location_id": &types.AttributeValueMemberS{Value: locationID},
		},
	})
	if err != nil {
		return core.CarrierPreference{}, fmt.Errorf("preferences.getItem: %w", err)
	}

	if out.Item == nil {
		return core.CarrierPreference{
			LocationID:      locationID,
			FexPreferences:  map[string]bool{},
			TermPreferences: map[string]bool{},
		}, nil
	}

	var item PreferenceItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return core.CarrierPreference{}, fmt.Errorf("preferences.unmarshal: %w", err)
	}
	return item.ToCore(), nil
}

// Save overwrites the preference item for the location.
func (r *PreferenceRepo) Save(ctx context.Context, locationID string, pref core.CarrierPreference) error {
	item := PreferenceItem{
		LocationID:      locationID,
		FexPreferences:  pref.FexPreferences,
		TermPreferences: pref.TermPreferences,
		UpdatedAt:       r.clock().Format(time.RFC3339),
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("preferences.marshal: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(TablePreferences),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("preferences.putItem: %w", err)
	}
	return nil
}
