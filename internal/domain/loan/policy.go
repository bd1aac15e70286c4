package loan

// Policy 借阅规则参数（来自配置）
type Policy struct {
	MaxActiveLoans  int   // 每位读者最多同时在借
	MaxLoanDays     int   // 借期上限
	DefaultLoanDays int   // 未指定借期时使用
	FinePerDay      int64 // 每逾期一天的罚款
}

// DefaultPolicy 默认规则
func DefaultPolicy() Policy {
	return Policy{
		MaxActiveLoans:  3,
		MaxLoanDays:     14,
		DefaultLoanDays: 14,
		FinePerDay:      5000,
	}
}

// ResolveDays 校验借期，nil使用默认值
func (p Policy) ResolveDays(days *int) (int, error) {
	if days == nil {
		return p.DefaultLoanDays, nil
	}
	if *days < 1 || *days > p.MaxLoanDays {
		return 0, InvalidDays(p.MaxLoanDays)
	}
	return *days, nil
}

// ReachedLimit 在借数是否已达上限
func (p Policy) ReachedLimit(active int64) bool {
	return active >= int64(p.MaxActiveLoans)
}

// FineAmount 逾期天数对应的罚款金额
func (p Policy) FineAmount(daysOverdue int) int64 {
	if daysOverdue <= 0 {
		return 0
	}
	return int64(daysOverdue) * p.FinePerDay
}

// FineFor 已归还借阅的罚款，按时归还返回nil
func (p Policy) FineFor(l *Loan) *Fine {
	if l.ReturnDate == nil || !l.ReturnDate.After(l.DueDate) {
		return nil
	}
	return &Fine{
		LoanID: l.ID,
		Amount: p.FineAmount(l.DaysOverdue(*l.ReturnDate)),
		Status: FinePending,
	}
}
