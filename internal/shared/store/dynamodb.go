package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
)

// DynamoConfig carries the connection settings for the events table.
type DynamoConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	TableName       string
	// Endpoint overrides the service endpoint, used for dynamodb-local.
	Endpoint string
}

// DynamoDB implements Store against a single DynamoDB table with the
// (pk, sk) composite key schema.
type DynamoDB struct {
	client    *dynamodb.Client
	tableName string
}

var _ Store = (*DynamoDB)(nil)

// NewDynamoDB connects a client for the configured table.
func NewDynamoDB(ctx context.Context, cfg DynamoConfig) (*DynamoDB, error) {
	if cfg.TableName == "" {
		return nil, errors.New("dynamodb: table name is required")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("dynamodb: load aws config: %w", err)
	}

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return &DynamoDB{client: client, tableName: cfg.TableName}, nil
}

// HealthCheck verifies the table is reachable and active.
func (d *DynamoDB) HealthCheck(ctx context.Context) error {
	out, err := d.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(d.tableName),
	})
	if err != nil {
		return fmt.Errorf("dynamodb: describe table %s: %w", d.tableName, err)
	}
	if out.Table.TableStatus != types.TableStatusActive {
		return fmt.Errorf("dynamodb: table %s status %s", d.tableName, out.Table.TableStatus)
	}
	return nil
}

func (d *DynamoDB) Get(ctx context.Context, pk, sk string) (Item, error) {
	out, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(d.tableName),
		Key:            keyAttrs(pk, sk),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("dynamodb: get %s/%s: %w", pk, sk, err)
	}
	if out.Item == nil {
		return nil, fmt.Errorf("get %s/%s: %w", pk, sk, ErrNotFound)
	}
	return fromAttrMap(out.Item), nil
}

func (d *DynamoDB) Put(ctx context.Context, item Item) error {
	_, err := d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.tableName),
		Item:      toAttrMap(item),
	})
	if err != nil {
		return fmt.Errorf("dynamodb: put %s/%s: %w", item.PK(), item.SK(), err)
	}
	return nil
}

func (d *DynamoDB) Query(ctx context.Context, pk string) ([]Item, error) {
	return d.QueryPrefix(ctx, pk, "")
}

func (d *DynamoDB) QueryPrefix(ctx context.Context, pk, skPrefix string) ([]Item, error) {
	keyExpr := "pk = :pk"
	values := map[string]types.AttributeValue{
		":pk": &types.AttributeValueMemberS{Value: pk},
	}
	if skPrefix != "" {
		keyExpr += " AND begins_with(sk, :skp)"
		values[":skp"] = &types.AttributeValueMemberS{Value: skPrefix}
	}

	var items []Item
	var startKey map[string]types.AttributeValue
	for {
		out, err := d.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(d.tableName),
			KeyConditionExpression:    aws.String(keyExpr),
			ExpressionAttributeValues: values,
			ConsistentRead:            aws.Bool(true),
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("dynamodb: query %s: %w", pk, err)
		}
		for _, raw := range out.Items {
			items = append(items, fromAttrMap(raw))
		}
		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}
	return items, nil
}

func (d *DynamoDB) Scan(ctx context.Context, filter ScanFilter) ([]Item, error) {
	expr := newExprBuilder()
	var clauses []string
	for attr, value := range filter.Equals {
		clauses = append(clauses, fmt.Sprintf("%s = %s", expr.name(attr), expr.value(value)))
	}
	if filter.SKPrefix != "" {
		clauses = append(clauses, fmt.Sprintf("begins_with(%s, %s)", expr.name("sk"), expr.value(filter.SKPrefix)))
	}

	input := &dynamodb.ScanInput{
		TableName:      aws.String(d.tableName),
		ConsistentRead: aws.Bool(true),
	}
	if len(clauses) > 0 {
		input.FilterExpression = aws.String(strings.Join(clauses, " AND "))
		input.ExpressionAttributeNames = expr.names
		input.ExpressionAttributeValues = expr.values
	}

	var items []Item
	for {
		out, err := d.client.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("dynamodb: scan: %w", err)
		}
		for _, raw := range out.Items {
			items = append(items, fromAttrMap(raw))
		}
		if out.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
	return items, nil
}

func (d *DynamoDB) UpdateConditional(ctx context.Context, pk, sk string, upd Update, cond *Condition) error {
	expr := newExprBuilder()
	updateExpr := expr.update(upd)
	condExpr := expr.condition(cond)

	input := &dynamodb.UpdateItemInput{
		TableName:                 aws.String(d.tableName),
		Key:                       keyAttrs(pk, sk),
		UpdateExpression:          aws.String(updateExpr),
		ExpressionAttributeNames:  expr.names,
		ExpressionAttributeValues: expr.values,
	}
	if condExpr != "" {
		input.ConditionExpression = aws.String(condExpr)
	}

	if _, err := d.client.UpdateItem(ctx, input); err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return fmt.Errorf("dynamodb: update %s/%s: %w", pk, sk, ErrConditionFailed)
		}
		return fmt.Errorf("dynamodb: update %s/%s: %w", pk, sk, err)
	}
	return nil
}

func (d *DynamoDB) TransactWrite(ctx context.Context, ops []WriteOp) error {
	txItems := make([]types.TransactWriteItem, 0, len(ops))
	for i, op := range ops {
		switch {
		case op.Put != nil:
			expr := newExprBuilder()
			put := &types.Put{
				TableName: aws.String(d.tableName),
				Item:      toAttrMap(op.Put.Item),
			}
			if condExpr := expr.condition(op.Put.Condition); condExpr != "" {
				put.ConditionExpression = aws.String(condExpr)
				put.ExpressionAttributeNames = expr.names
				if len(expr.values) > 0 {
					put.ExpressionAttributeValues = expr.values
				}
			}
			txItems = append(txItems, types.TransactWriteItem{Put: put})

		case op.Update != nil:
			expr := newExprBuilder()
			update := &types.Update{
				TableName:                 aws.String(d.tableName),
				Key:                       keyAttrs(op.Update.PK, op.Update.SK),
				UpdateExpression:          aws.String(expr.update(op.Update.Update)),
				ExpressionAttributeNames:  expr.names,
				ExpressionAttributeValues: expr.values,
			}
			if condExpr := expr.condition(op.Update.Condition); condExpr != "" {
				update.ConditionExpression = aws.String(condExpr)
			}
			txItems = append(txItems, types.TransactWriteItem{Update: update})

		case op.Delete != nil:
			expr := newExprBuilder()
			del := &types.Delete{
				TableName: aws.String(d.tableName),
				Key:       keyAttrs(op.Delete.PK, op.Delete.SK),
			}
			if condExpr := expr.condition(op.Delete.Condition); condExpr != "" {
				del.ConditionExpression = aws.String(condExpr)
				del.ExpressionAttributeNames = expr.names
				if len(expr.values) > 0 {
					del.ExpressionAttributeValues = expr.values
				}
			}
			txItems = append(txItems, types.TransactWriteItem{Delete: del})

		default:
			return fmt.Errorf("dynamodb: transact op %d: empty write op", i)
		}
	}

	_, err := d.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: txItems,
	})
	if err == nil {
		return nil
	}

	var canceled *types.TransactionCanceledException
	if errors.As(err, &canceled) {
		for _, reason := range canceled.CancellationReasons {
			if reason.Code != nil && *reason.Code == "ConditionalCheckFailed" {
				return &canceledError{cause: ErrConditionFailed}
			}
		}
		return &canceledError{cause: err}
	}
	return fmt.Errorf("dynamodb: transact write: %w", err)
}

// exprBuilder accumulates aliased attribute names and values so attributes
// like "state" and "ttl" never collide with reserved words.
type exprBuilder struct {
	names  map[string]string
	values map[string]types.AttributeValue
}

func newExprBuilder() *exprBuilder {
	return &exprBuilder{
		names:  make(map[string]string),
		values: make(map[string]types.AttributeValue),
	}
}

func (b *exprBuilder) name(attr string) string {
	for alias, name := range b.names {
		if name == attr {
			return alias
		}
	}
	alias := "#n" + fmt.Sprint(len(b.names))
	b.names[alias] = attr
	return alias
}

func (b *exprBuilder) value(v interface{}) string {
	placeholder := ":v" + fmt.Sprint(len(b.values))
	b.values[placeholder] = toAttr(v)
	return placeholder
}

func (b *exprBuilder) update(upd Update) string {
	var setParts, addParts []string
	for attr, value := range upd.Set {
		setParts = append(setParts, fmt.Sprintf("%s = %s", b.name(attr), b.value(value)))
	}
	for attr, delta := range upd.Add {
		addParts = append(addParts, fmt.Sprintf("%s %s", b.name(attr), b.value(delta)))
	}

	var sections []string
	if len(setParts) > 0 {
		sections = append(sections, "SET "+strings.Join(setParts, ", "))
	}
	if len(addParts) > 0 {
		sections = append(sections, "ADD "+strings.Join(addParts, ", "))
	}
	return strings.Join(sections, " ")
}

func (b *exprBuilder) condition(cond *Condition) string {
	if cond == nil {
		return ""
	}
	var clauses []string
	for attr, value := range cond.Equals {
		clauses = append(clauses, fmt.Sprintf("%s = %s", b.name(attr), b.value(value)))
	}
	for _, attr := range cond.Exists {
		clauses = append(clauses, fmt.Sprintf("attribute_exists(%s)", b.name(attr)))
	}
	for _, attr := range cond.NotExists {
		clauses = append(clauses, fmt.Sprintf("attribute_not_exists(%s)", b.name(attr)))
	}
	return strings.Join(clauses, " AND ")
}

func keyAttrs(pk, sk string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"pk": &types.AttributeValueMemberS{Value: pk},
		"sk": &types.AttributeValueMemberS{Value: sk},
	}
}

func toAttrMap(item Item) map[string]types.AttributeValue {
	out := make(map[string]types.AttributeValue, len(item))
	for attr, value := range item {
		out[attr] = toAttr(value)
	}
	return out
}

// toAttr converts an Item attribute value to its wire representation.
// Decimals travel as N, which DynamoDB stores as exact decimal strings.
func toAttr(v interface{}) types.AttributeValue {
	switch value := v.(type) {
	case nil:
		return &types.AttributeValueMemberNULL{Value: true}
	case string:
		return &types.AttributeValueMemberS{Value: value}
	case bool:
		return &types.AttributeValueMemberBOOL{Value: value}
	case int:
		return &types.AttributeValueMemberN{Value: fmt.Sprint(value)}
	case int64:
		return &types.AttributeValueMemberN{Value: fmt.Sprint(value)}
	case float64:
		return &types.AttributeValueMemberN{Value: decimal.NewFromFloat(value).String()}
	case decimal.Decimal:
		return &types.AttributeValueMemberN{Value: value.String()}
	case []string:
		// Lists keep insertion order; string sets do not.
		members := make([]types.AttributeValue, 0, len(value))
		for _, s := range value {
			members = append(members, &types.AttributeValueMemberS{Value: s})
		}
		return &types.AttributeValueMemberL{Value: members}
	case map[string]interface{}:
		nested := make(map[string]types.AttributeValue, len(value))
		for k, elem := range value {
			nested[k] = toAttr(elem)
		}
		return &types.AttributeValueMemberM{Value: nested}
	default:
		return &types.AttributeValueMemberS{Value: fmt.Sprint(value)}
	}
}

func fromAttrMap(raw map[string]types.AttributeValue) Item {
	item := make(Item, len(raw))
	for attr, value := range raw {
		item[attr] = fromAttr(value)
	}
	return item
}

func fromAttr(av types.AttributeValue) interface{} {
	switch value := av.(type) {
	case *types.AttributeValueMemberNULL:
		return nil
	case *types.AttributeValueMemberS:
		return value.Value
	case *types.AttributeValueMemberBOOL:
		return value.Value
	case *types.AttributeValueMemberN:
		d, err := decimal.NewFromString(value.Value)
		if err != nil {
			return value.Value
		}
		return d
	case *types.AttributeValueMemberSS:
		return append([]string(nil), value.Value...)
	case *types.AttributeValueMemberL:
		out := make([]interface{}, 0, len(value.Value))
		for _, elem := range value.Value {
			out = append(out, fromAttr(elem))
		}
		return out
	case *types.AttributeValueMemberM:
		out := make(map[string]interface{}, len(value.Value))
		for k, elem := range value.Value {
			out[k] = fromAttr(elem)
		}
		return out
	default:
		return nil
	}
}
