package aws

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/budgets"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	ceTypes "github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/smithy-go"
	"github.com/diillson/aws-cost-dashboard-go/internal/domain/entity"
	"github.com/diillson/aws-cost-dashboard-go/internal/domain/repository"
	"github.com/diillson/aws-cost-dashboard-go/internal/shared/types"
)

// Cost Explorer and Budgets are global services served from us-east-1.
const globalRegion = "us-east-1"

const (
	unknownService   = "Unknown"
	unknownUsageType = "N/A"
	costMetric       = "UnblendedCost"

	accessDeniedCode = "AccessDeniedException"
)

// Options is the explicit AWS client configuration shared by every profile.
type Options struct {
	// Region is used for regional clients; empty keeps the profile's own region.
	Region           string
	RetryMaxAttempts int
}

// CostExplorerAPI is the subset of the Cost Explorer client used here.
type CostExplorerAPI interface {
	GetCostAndUsage(ctx context.Context, params *costexplorer.GetCostAndUsageInput, optFns ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageOutput, error)
}

// BudgetsAPI is the subset of the Budgets client used here.
type BudgetsAPI interface {
	DescribeBudgets(ctx context.Context, params *budgets.DescribeBudgetsInput, optFns ...func(*budgets.Options)) (*budgets.DescribeBudgetsOutput, error)
}

// AWSRepositoryImpl implementa o CostRepository com cache de configs e clientes.
type AWSRepositoryImpl struct {
	opts        Options
	cfgCache    map[string]aws.Config
	clientCache map[string]interface{}
	mu          sync.Mutex
}

// NewAWSRepository cria uma nova implementação do CostRepository.
func NewAWSRepository(opts Options) repository.CostRepository {
	return &AWSRepositoryImpl{
		opts:        opts,
		cfgCache:    make(map[string]aws.Config),
		clientCache: make(map[string]interface{}),
	}
}

func (r *AWSRepositoryImpl) getAWSConfig(ctx context.Context, profile string) (aws.Config, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cfg, ok := r.cfgCache[profile]; ok {
		return cfg, nil
	}

	optFns := []func(*config.LoadOptions) error{config.WithSharedConfigProfile(profile)}
	if r.opts.Region != "" {
		optFns = append(optFns, config.WithRegion(r.opts.Region))
	}
	if r.opts.RetryMaxAttempts > 0 {
		optFns = append(optFns, config.WithRetryMaxAttempts(r.opts.RetryMaxAttempts))
	}

	cfg, err := config.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config for profile %s: %w", profile, err)
	}

	r.cfgCache[profile] = cfg
	return cfg, nil
}

func (r *AWSRepositoryImpl) getServiceClient(ctx context.Context, profile, region, service string) (interface{}, error) {
	cacheKey := fmt.Sprintf("%s-%s-%s", profile, region, service)

	r.mu.Lock()
	if client, ok := r.clientCache[cacheKey]; ok {
		r.mu.Unlock()
		return client, nil
	}
	r.mu.Unlock()

	cfg, err := r.getAWSConfig(ctx, profile)
	if err != nil {
		return nil, err
	}

	regionalCfg := cfg.Copy()
	if region != "" {
		regionalCfg.Region = region
	}

	var client interface{}
	switch service {
	case "sts":
		client = sts.NewFromConfig(regionalCfg)
	case "costexplorer":
		regionalCfg.Region = globalRegion
		client = costexplorer.NewFromConfig(regionalCfg)
	case "budgets":
		regionalCfg.Region = globalRegion
		client = budgets.NewFromConfig(regionalCfg)
	default:
		return nil, fmt.Errorf("unsupported service: %s", service)
	}

	r.mu.Lock()
	r.clientCache[cacheKey] = client
	r.mu.Unlock()

	return client, nil
}

func (r *AWSRepositoryImpl) GetAWSProfiles() []string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return []string{"default"}
	}
	return profilesFromFiles(
		filepath.Join(homeDir, ".aws", "credentials"),
		filepath.Join(homeDir, ".aws", "config"),
	)
}

var profileRegex = regexp.MustCompile(`\[([^]]+)\]`)

// profilesFromFiles reads profile names from the shared credentials and config files.
func profilesFromFiles(credentialsPath, configPath string) []string {
	profiles := make(map[string]bool)

	parseFile := func(path string, isConfig bool) {
		content, err := os.ReadFile(path)
		if err != nil {
			return
		}
		matches := profileRegex.FindAllStringSubmatch(string(content), -1)
		for _, match := range matches {
			profileName := match[1]
			if isConfig {
				// sso-session and services sections are not profiles
				if strings.HasPrefix(profileName, "sso-session ") || strings.HasPrefix(profileName, "services ") {
					continue
				}
				profileName = strings.TrimPrefix(profileName, "profile ")
			}
			profiles[strings.TrimSpace(profileName)] = true
		}
	}

	parseFile(credentialsPath, false)
	parseFile(configPath, true)

	if len(profiles) == 0 {
		profiles["default"] = true
	}

	result := make([]string, 0, len(profiles))
	for profile := range profiles {
		result = append(result, profile)
	}
	sort.Strings(result)
	return result
}

func (r *AWSRepositoryImpl) GetAccountID(ctx context.Context, profile string) (string, error) {
	client, err := r.getServiceClient(ctx, profile, globalRegion, "sts")
	if err != nil {
		return "", err
	}
	stsClient := client.(*sts.Client)

	result, err := stsClient.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("error getting account ID for profile %s: %w", profile, err)
	}
	return aws.ToString(result.Account), nil
}

// GetCostRecords returns one record per (day, service, usage type) with a positive
// unblended cost in the period.
func (r *AWSRepositoryImpl) GetCostRecords(ctx context.Context, profile string, period entity.Period, tags []string) ([]entity.CostRecord, error) {
	filter, err := parseTagFilter(tags)
	if err != nil {
		return nil, err
	}

	client, err := r.getServiceClient(ctx, profile, "", "costexplorer")
	if err != nil {
		return nil, err
	}

	records, err := fetchCostRecords(ctx, client.(*costexplorer.Client), period, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to get cost and usage for profile %s: %w", profile, err)
	}
	return records, nil
}

// fetchCostRecords pages through GetCostAndUsage (DAILY, grouped by SERVICE and USAGE_TYPE).
func fetchCostRecords(ctx context.Context, api CostExplorerAPI, period entity.Period, filter *ceTypes.Expression) ([]entity.CostRecord, error) {
	input := &costexplorer.GetCostAndUsageInput{
		TimePeriod: &ceTypes.DateInterval{
			Start: aws.String(period.Start.Format("2006-01-02")),
			End:   aws.String(period.End.Format("2006-01-02")),
		},
		Granularity: ceTypes.GranularityDaily,
		Metrics:     []string{costMetric},
		GroupBy: []ceTypes.GroupDefinition{
			{Type: ceTypes.GroupDefinitionTypeDimension, Key: aws.String("SERVICE")},
			{Type: ceTypes.GroupDefinitionTypeDimension, Key: aws.String("USAGE_TYPE")},
		},
		Filter: filter,
	}

	var records []entity.CostRecord
	for {
		result, err := api.GetCostAndUsage(ctx, input)
		if err != nil {
			return nil, err
		}

		for _, byTime := range result.ResultsByTime {
			if byTime.TimePeriod == nil || byTime.TimePeriod.Start == nil {
				continue
			}
			date := *byTime.TimePeriod.Start

			for _, group := range byTime.Groups {
				metric, ok := group.Metrics[costMetric]
				if !ok || metric.Amount == nil {
					continue
				}
				cost, err := strconv.ParseFloat(*metric.Amount, 64)
				if err != nil {
					return nil, fmt.Errorf("invalid amount %q for %s: %w", *metric.Amount, date, err)
				}
				if cost <= 0 {
					continue
				}

				service, usageType := unknownService, unknownUsageType
				if len(group.Keys) > 0 && group.Keys[0] != "" {
					service = group.Keys[0]
				}
				if len(group.Keys) > 1 && group.Keys[1] != "" {
					usageType = group.Keys[1]
				}

				records = append(records, entity.CostRecord{
					Date:      date,
					Service:   service,
					UsageType: usageType,
					Cost:      cost,
				})
			}
		}

		if result.NextPageToken == nil || *result.NextPageToken == "" {
			break
		}
		input.NextPageToken = result.NextPageToken
	}

	return records, nil
}

func (r *AWSRepositoryImpl) GetBudgets(ctx context.Context, profile string) ([]entity.BudgetInfo, error) {
	client, err := r.getServiceClient(ctx, profile, "", "budgets")
	if err != nil {
		return nil, err
	}

	accountID, err := r.GetAccountID(ctx, profile)
	if err != nil {
		return nil, err
	}

	return fetchBudgets(ctx, client.(*budgets.Client), accountID)
}

// fetchBudgets lists the account's budgets. An account without Budgets
// permissions has no budgets to show, so access denied yields an empty list.
func fetchBudgets(ctx context.Context, api BudgetsAPI, accountID string) ([]entity.BudgetInfo, error) {
	result, err := api.DescribeBudgets(ctx, &budgets.DescribeBudgetsInput{
		AccountId: aws.String(accountID),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == accessDeniedCode {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to describe budgets for account %s: %w", accountID, err)
	}

	budgetsData := []entity.BudgetInfo{}
	for _, budget := range result.Budgets {
		b := entity.BudgetInfo{Name: aws.ToString(budget.BudgetName)}
		if budget.BudgetLimit != nil {
			b.Limit, _ = strconv.ParseFloat(aws.ToString(budget.BudgetLimit.Amount), 64)
		}
		if spend := budget.CalculatedSpend; spend != nil {
			if spend.ActualSpend != nil {
				b.Actual, _ = strconv.ParseFloat(aws.ToString(spend.ActualSpend.Amount), 64)
			}
			if spend.ForecastedSpend != nil {
				b.Forecast, _ = strconv.ParseFloat(aws.ToString(spend.ForecastedSpend.Amount), 64)
			}
		}
		budgetsData = append(budgetsData, b)
	}

	return budgetsData, nil
}

func parseTagFilter(tags []string) (*ceTypes.Expression, error) {
	if len(tags) == 0 {
		return nil, nil
	}

	var expressions []ceTypes.Expression
	for _, t := range tags {
		parts := strings.SplitN(t, "=", 2)
		if len(parts) != 2 || parts[0] == "" {
			return nil, fmt.Errorf("%w: %s", types.ErrInvalidTag, t)
		}
		expressions = append(expressions, ceTypes.Expression{
			Tags: &ceTypes.TagValues{
				Key:    aws.String(parts[0]),
				Values: []string{parts[1]},
			},
		})
	}

	if len(expressions) == 1 {
		return &expressions[0], nil
	}

	return &ceTypes.Expression{And: expressions}, nil
}
