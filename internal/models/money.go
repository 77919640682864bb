package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Money 金额类型，统一保留 2 位小数（IDR 亦按 2 位存储）
type Money struct {
	decimal.Decimal
}

// NewMoney 从 decimal 创建金额
func NewMoney(amount decimal.Decimal) Money {
	return Money{Decimal: amount.Round(2)}
}

// NewMoneyFromInt 从整数创建金额
func NewMoneyFromInt(amount int64) Money {
	return NewMoney(decimal.NewFromInt(amount))
}

// MustMoney 解析金额字符串，仅用于常量与测试
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(fmt.Sprintf("invalid money literal %q: %v", s, err))
	}
	return NewMoney(d)
}

// ApplyDiscountPercent 按百分比折扣计算：amount - amount*pct/100
func (m Money) ApplyDiscountPercent(pct int) Money {
	if pct <= 0 {
		return NewMoney(m.Decimal)
	}
	if pct > 100 {
		pct = 100
	}
	cut := m.Decimal.Mul(decimal.NewFromInt(int64(pct))).Div(hundred)
	return NewMoney(m.Decimal.Sub(cut))
}

// GatewayAmount 网关金额，截断小数部分（84999.15 按 84999 收取）
func (m Money) GatewayAmount() int64 {
	return m.Decimal.Floor().IntPart()
}

// MarshalJSON 输出 2 位小数字符串
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON 兼容字符串与数字
func (m *Money) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	var raw interface{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	var (
		d   decimal.Decimal
		err error
	)
	switch v := raw.(type) {
	case string:
		d, err = decimal.NewFromString(v)
	case float64:
		d = decimal.NewFromFloat(v)
	default:
		err = fmt.Errorf("unsupported money value: %s", string(b))
	}
	if err != nil {
		return err
	}
	m.Decimal = d.Round(2)
	return nil
}

// Value 数据库写入
func (m Money) Value() (driver.Value, error) {
	return m.Decimal.Round(2).Value()
}

// Scan 数据库读取
func (m *Money) Scan(value interface{}) error {
	if err := m.Decimal.Scan(value); err != nil {
		return err
	}
	m.Decimal = m.Decimal.Round(2)
	return nil
}

// String 2 位小数格式
func (m Money) String() string {
	return m.Decimal.Round(2).StringFixed(2)
}
