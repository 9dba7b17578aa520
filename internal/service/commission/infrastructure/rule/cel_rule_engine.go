package rule

import (
	"context"
	"fmt"

	"github.com/google/cel-go/cel"

	"affiliatehub/internal/pkg/logger"
	"affiliatehub/internal/service/commission/domain"
)

// CELQualificationEngine 是 port.QualificationRuleEngine 的 CEL 实现。
// 每个平台一条表达式，可用变量：
//
//	deposit_amount double  平台回传的入金金额，无法解析时为 0
//	verified       bool    平台是否完成了 KYC
//	days_active    int     客户活跃天数
//	platform       string
type CELQualificationEngine struct {
	programs map[domain.Platform]cel.Program
}

// NewCELQualificationEngine 在启动时编译所有表达式，任何一条编译失败都直接返回错误。
func NewCELQualificationEngine(rules map[string]string) (*CELQualificationEngine, error) {
	env, err := cel.NewEnv(
		cel.Variable("deposit_amount", cel.DoubleType),
		cel.Variable("verified", cel.BoolType),
		cel.Variable("days_active", cel.IntType),
		cel.Variable("platform", cel.StringType),
	)
	if err != nil {
		return nil, fmt.Errorf("create cel env: %w", err)
	}

	programs := make(map[domain.Platform]cel.Program, len(rules))
	for name, expr := range rules {
		platform, err := domain.ParsePlatform(name)
		if err != nil {
			return nil, fmt.Errorf("qualification rule for %q: %w", name, err)
		}
		ast, iss := env.Compile(expr)
		if iss != nil && iss.Err() != nil {
			return nil, fmt.Errorf("compile rule for %s: %w", platform, iss.Err())
		}
		if !ast.OutputType().IsExactType(cel.BoolType) {
			return nil, fmt.Errorf("rule for %s must return bool, got %s", platform, ast.OutputType())
		}
		prg, err := env.Program(ast)
		if err != nil {
			return nil, fmt.Errorf("build program for %s: %w", platform, err)
		}
		programs[platform] = prg
	}
	return &CELQualificationEngine{programs: programs}, nil
}

// Evaluate 没有配置规则的平台一律不自动审核。
func (e *CELQualificationEngine) Evaluate(ctx context.Context, evt domain.PlatformActivityEvent) (bool, error) {
	platform, err := domain.ParsePlatform(string(evt.Platform))
	if err != nil {
		return false, err
	}
	prg, ok := e.programs[platform]
	if !ok {
		logger.Ctx(ctx).Debug().Str("platform", string(platform)).Msg("no qualification rule configured")
		return false, nil
	}

	deposit := domain.ParseDeposit(&evt.DepositAmount)
	out, _, err := prg.ContextEval(ctx, map[string]any{
		"deposit_amount": deposit.InexactFloat64(),
		"verified":       evt.Verified,
		"days_active":    evt.DaysActive,
		"platform":       string(platform),
	})
	if err != nil {
		return false, fmt.Errorf("evaluate rule for %s: %w", platform, err)
	}
	passed, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("rule for %s returned %T", platform, out.Value())
	}
	return passed, nil
}
