package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// postingStrategy plans the legs of one posting kind. Amounts stay in the source currency;
// the dispatcher converts them with the request's exchange rate.
type postingStrategy func(ctx context.Context, in *postingInput) (*legPlan, error)

// postingInput is what a strategy sees: the request and a way to resolve categories.
type postingInput struct {
	req      domain.PostingRequest
	resolver *categoryResolver
}

type legSide int

const (
	debitSide legSide = iota
	creditSide
)

func (s legSide) opposite() legSide {
	if s == debitSide {
		return creditSide
	}
	return debitSide
}

type plannedLeg struct {
	category  domain.CategoryWithClassification
	side      legSide
	amount    decimal.Decimal
	contactID *int64
}

// legPlan accumulates planned legs. A negative amount is posted on the opposite side.
type legPlan struct {
	legs []plannedLeg
}

func (p *legPlan) debit(cat domain.CategoryWithClassification, amount decimal.Decimal) *legPlan {
	return p.add(cat, debitSide, amount, nil)
}

func (p *legPlan) credit(cat domain.CategoryWithClassification, amount decimal.Decimal) *legPlan {
	return p.add(cat, creditSide, amount, nil)
}

func (p *legPlan) add(cat domain.CategoryWithClassification, side legSide, amount decimal.Decimal, contactID *int64) *legPlan {
	if amount.IsNegative() {
		side = side.opposite()
		amount = amount.Neg()
	}
	p.legs = append(p.legs, plannedLeg{category: cat, side: side, amount: amount, contactID: contactID})
	return p
}

// partyLeg posts to the resolved party category and tags the leg with the contact.
func (p *legPlan) partyLeg(party resolvedParty, side legSide, amount decimal.Decimal) *legPlan {
	return p.add(party.category, side, amount, party.contactID)
}

type resolvedParty struct {
	category  domain.CategoryWithClassification
	contactID *int64
}

// debitNormal reports whether the party category grows with debits (a customer receivable).
func (p resolvedParty) debitNormal() (bool, error) {
	flow, err := p.category.NormalFlow()
	if err != nil {
		return false, fmt.Errorf("%w: party category %s: %v", apperrors.ErrPrecondition, p.category.Code, err)
	}
	return flow == domain.DebitIncreases, nil
}

// categoryResolver turns category hints, party references and well-known codes into categories.
type categoryResolver struct {
	categories portssvc.CategoryReaderSvc
	parties    portsrepo.PartyRelationReader
}

func (r *categoryResolver) byCode(ctx context.Context, code string) (domain.CategoryWithClassification, error) {
	cat, err := r.categories.GetCategoryByCode(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.CategoryWithClassification{}, fmt.Errorf("%w: category %s is not set up", apperrors.ErrPrecondition, code)
		}
		return domain.CategoryWithClassification{}, err
	}
	return *cat, nil
}

func (r *categoryResolver) byID(ctx context.Context, id int64) (domain.CategoryWithClassification, error) {
	cat, err := r.categories.GetCategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.CategoryWithClassification{}, fmt.Errorf("%w: category %d does not exist", apperrors.ErrPrecondition, id)
		}
		return domain.CategoryWithClassification{}, err
	}
	return *cat, nil
}

// role resolves the hinted category for role, or defaultCode when there is no hint.
// An empty defaultCode makes the hint mandatory.
func (r *categoryResolver) role(ctx context.Context, req domain.PostingRequest, role domain.CategoryRole, defaultCode string) (domain.CategoryWithClassification, error) {
	if id, ok := req.Category(role); ok {
		return r.byID(ctx, id)
	}
	if defaultCode == "" {
		return domain.CategoryWithClassification{}, fmt.Errorf("%w: %s posting needs a %s category", apperrors.ErrPrecondition, req.ReferenceType, role)
	}
	return r.byCode(ctx, defaultCode)
}

// party resolves the category of the posting's party. An explicit PARTY hint wins over the
// party relation, which wins over defaultCode.
func (r *categoryResolver) party(ctx context.Context, req domain.PostingRequest, defaultCode string) (resolvedParty, error) {
	var contactID *int64
	if req.Party != nil && req.Party.Kind == domain.PartyContact {
		id := req.Party.ID
		contactID = &id
	}
	if id, ok := req.Category(domain.RoleParty); ok {
		cat, err := r.byID(ctx, id)
		return resolvedParty{category: cat, contactID: contactID}, err
	}
	if req.Party != nil {
		rel, err := r.parties.FindPartyCategory(ctx, req.Party.Kind, req.Party.ID, req.Party.Role)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return resolvedParty{}, fmt.Errorf("%w: %s %d has no %s category", apperrors.ErrPrecondition,
					req.Party.Kind, req.Party.ID, req.Party.Role)
			}
			return resolvedParty{}, err
		}
		cat, err := r.byID(ctx, rel.TransactionCategoryID)
		return resolvedParty{category: cat, contactID: contactID}, err
	}
	if defaultCode == "" {
		return resolvedParty{}, fmt.Errorf("%w: %s posting needs a party", apperrors.ErrPrecondition, req.ReferenceType)
	}
	cat, err := r.byCode(ctx, defaultCode)
	return resolvedParty{category: cat}, err
}

// defaultPostingStrategies returns the strategy of every forward posting kind.
func defaultPostingStrategies() map[domain.PostingReferenceType]postingStrategy {
	return map[domain.PostingReferenceType]postingStrategy{
		domain.RefInvoice:                     postInvoice(domain.CodeAccountsReceivable),
		domain.RefPurchase:                    postInvoice(domain.CodeAccountsPayable),
		domain.RefCreditNote:                  postCreditNote,
		domain.RefDebitNote:                   postDebitNote,
		domain.RefPayment:                     postSettlement(false),
		domain.RefRefund:                      postSettlement(true),
		domain.RefReceipt:                     postReceipt,
		domain.RefExpense:                     postExpense,
		domain.RefPettyCash:                   postPettyCash,
		domain.RefBankReceipt:                 postDepositAgainstLine(debitSide),
		domain.RefBankPayment:                 postDepositAgainstLine(creditSide),
		domain.RefBankAccount:                 postBankAccount,
		domain.RefBalanceAdjustment:           postBalanceAdjustment,
		domain.RefManual:                      postManual,
		domain.RefTransactionReconsile:        postReconcile,
		domain.RefTransactionReconsileInvoice: postReconcileInvoice,
		domain.RefPayrollApproved:             postPayrollApproved,
		domain.RefPayrollExplained:            postPayrollExplained,
		domain.RefVatReportFiled:              postVatReportFiled,
		domain.RefVatPayment:                  postFixedPair(domain.CodeVatPayable, "", false),
		domain.RefVatClaim:                    postFixedPair(domain.CodeVatPayable, "", true),
		domain.RefCorporateTaxReportFiled:     postFixedPair(domain.CodeCorporationTax, domain.CodeCorporateTaxExpense, true),
		domain.RefCorporateTaxPayment:         postFixedPair(domain.CodeCorporationTax, "", false),
	}
}

// postInvoice books a sales or purchase invoice. The party category's normal flow decides
// which: a receivable party is a customer, a payable party a supplier.
func postInvoice(defaultPartyCode string) postingStrategy {
	return func(ctx context.Context, in *postingInput) (*legPlan, error) {
		req := in.req
		party, err := in.resolver.party(ctx, req, defaultPartyCode)
		if err != nil {
			return nil, err
		}
		customer, err := party.debitNormal()
		if err != nil {
			return nil, err
		}
		if req.ReferenceType == domain.RefPurchase && customer {
			return nil, fmt.Errorf("%w: purchase party category %s is not a payable", apperrors.ErrPrecondition, party.category.Code)
		}
		revenueOrCost := req.NetAmount().Add(req.DiscountAmount)
		plan := &legPlan{}

		if customer {
			line, err := in.resolver.role(ctx, req, domain.RoleLine, domain.CodeSales)
			if err != nil {
				return nil, err
			}
			plan.partyLeg(party, debitSide, req.Amount)
			if req.DiscountAmount.IsPositive() {
				discount, err := in.resolver.byCode(ctx, domain.CodeSalesDiscount)
				if err != nil {
					return nil, err
				}
				plan.debit(discount, req.DiscountAmount)
			}
			plan.credit(line, revenueOrCost)
			if req.VatAmount.IsPositive() {
				vat, err := in.resolver.byCode(ctx, domain.CodeOutputVat)
				if err != nil {
					return nil, err
				}
				plan.credit(vat, req.VatAmount)
			}
			return plan, nil
		}

		line, err := in.resolver.role(ctx, req, domain.RoleLine, domain.CodeCostOfGoodsSold)
		if err != nil {
			return nil, err
		}
		plan.debit(line, revenueOrCost)
		if req.VatAmount.IsPositive() {
			vat, err := in.resolver.byCode(ctx, domain.CodeInputVat)
			if err != nil {
				return nil, err
			}
			plan.debit(vat, req.VatAmount)
		}
		if req.DiscountAmount.IsPositive() {
			discount, err := in.resolver.byCode(ctx, domain.CodePurchaseDiscount)
			if err != nil {
				return nil, err
			}
			plan.credit(discount, req.DiscountAmount)
		}
		plan.partyLeg(party, creditSide, req.Amount)
		return plan, nil
	}
}

func postCreditNote(ctx context.Context, in *postingInput) (*legPlan, error) {
	req := in.req
	party, err := in.resolver.party(ctx, req, domain.CodeAccountsReceivable)
	if err != nil {
		return nil, err
	}
	line, err := in.resolver.role(ctx, req, domain.RoleLine, domain.CodeSales)
	if err != nil {
		return nil, err
	}
	plan := (&legPlan{}).debit(line, req.NetAmount())
	if req.VatAmount.IsPositive() {
		vat, err := in.resolver.byCode(ctx, domain.CodeOutputVat)
		if err != nil {
			return nil, err
		}
		plan.debit(vat, req.VatAmount)
	}
	return plan.partyLeg(party, creditSide, req.Amount), nil
}

func postDebitNote(ctx context.Context, in *postingInput) (*legPlan, error) {
	req := in.req
	party, err := in.resolver.party(ctx, req, domain.CodeAccountsPayable)
	if err != nil {
		return nil, err
	}
	line, err := in.resolver.role(ctx, req, domain.RoleLine, domain.CodeCostOfGoodsSold)
	if err != nil {
		return nil, err
	}
	plan := (&legPlan{}).partyLeg(party, debitSide, req.Amount).credit(line, req.NetAmount())
	if req.VatAmount.IsPositive() {
		vat, err := in.resolver.byCode(ctx, domain.CodeInputVat)
		if err != nil {
			return nil, err
		}
		plan.credit(vat, req.VatAmount)
	}
	return plan, nil
}

// postSettlement books money moving between a deposit account and a party. For a receivable
// party a payment brings money in; for a payable party it sends money out. A refund is the
// opposite direction.
func postSettlement(refund bool) postingStrategy {
	return func(ctx context.Context, in *postingInput) (*legPlan, error) {
		req := in.req
		party, err := in.resolver.party(ctx, req, domain.CodeAccountsReceivable)
		if err != nil {
			return nil, err
		}
		deposit, err := in.resolver.role(ctx, req, domain.RoleDepositTo, domain.CodeBank)
		if err != nil {
			return nil, err
		}
		moneyIn, err := party.debitNormal()
		if err != nil {
			return nil, err
		}
		if refund {
			moneyIn = !moneyIn
		}
		if moneyIn {
			return (&legPlan{}).debit(deposit, req.Amount).partyLeg(party, creditSide, req.Amount), nil
		}
		return (&legPlan{}).partyLeg(party, debitSide, req.Amount).credit(deposit, req.Amount), nil
	}
}

func postReceipt(ctx context.Context, in *postingInput) (*legPlan, error) {
	req := in.req
	party, err := in.resolver.party(ctx, req, domain.CodeAccountsReceivable)
	if err != nil {
		return nil, err
	}
	deposit, err := in.resolver.role(ctx, req, domain.RoleDepositTo, domain.CodeBank)
	if err != nil {
		return nil, err
	}
	return (&legPlan{}).debit(deposit, req.Amount).partyLeg(party, creditSide, req.Amount), nil
}

func postExpense(ctx context.Context, in *postingInput) (*legPlan, error) {
	req := in.req
	line, err := in.resolver.role(ctx, req, domain.RoleLine, "")
	if err != nil {
		return nil, err
	}
	deposit, err := in.resolver.role(ctx, req, domain.RoleDepositTo, domain.CodePettyCash)
	if err != nil {
		return nil, err
	}
	plan := (&legPlan{}).debit(line, req.NetAmount())
	if req.VatAmount.IsPositive() {
		vat, err := in.resolver.byCode(ctx, domain.CodeInputVat)
		if err != nil {
			return nil, err
		}
		plan.debit(vat, req.VatAmount)
	}
	return plan.credit(deposit, req.Amount), nil
}

func postPettyCash(ctx context.Context, in *postingInput) (*legPlan, error) {
	req := in.req
	pettyCash, err := in.resolver.byCode(ctx, domain.CodePettyCash)
	if err != nil {
		return nil, err
	}
	deposit, err := in.resolver.role(ctx, req, domain.RoleDepositTo, domain.CodeBank)
	if err != nil {
		return nil, err
	}
	return (&legPlan{}).debit(pettyCash, req.Amount).credit(deposit, req.Amount), nil
}

// postDepositAgainstLine books a bank transaction explained against a line category.
// depositSide is the side the bank leg is posted on.
func postDepositAgainstLine(depositSide legSide) postingStrategy {
	return func(ctx context.Context, in *postingInput) (*legPlan, error) {
		req := in.req
		deposit, err := in.resolver.role(ctx, req, domain.RoleDepositTo, domain.CodeBank)
		if err != nil {
			return nil, err
		}
		line, err := in.resolver.role(ctx, req, domain.RoleLine, "")
		if err != nil {
			return nil, err
		}
		plan := &legPlan{}
		plan.add(deposit, depositSide, req.Amount, nil)
		plan.add(line, depositSide.opposite(), req.Amount, nil)
		return plan, nil
	}
}

func postBankAccount(ctx context.Context, in *postingInput) (*legPlan, error) {
	req := in.req
	deposit, err := in.resolver.role(ctx, req, domain.RoleDepositTo, "")
	if err != nil {
		return nil, err
	}
	offset, err := in.resolver.byCode(ctx, domain.CodeOpeningBalanceOffsetLiabilities)
	if err != nil {
		return nil, err
	}
	return (&legPlan{}).debit(deposit, req.Amount).credit(offset, req.Amount), nil
}

// postBalanceAdjustment books an opening balance against the matching offset category.
// A negative amount moves the balance the other way.
func postBalanceAdjustment(ctx context.Context, in *postingInput) (*legPlan, error) {
	req := in.req
	line, err := in.resolver.role(ctx, req, domain.RoleLine, "")
	if err != nil {
		return nil, err
	}
	flow, err := line.NormalFlow()
	if err != nil {
		return nil, fmt.Errorf("%w: category %s: %v", apperrors.ErrPrecondition, line.Code, err)
	}
	if flow == domain.DebitIncreases {
		offset, err := in.resolver.byCode(ctx, domain.CodeOpeningBalanceOffsetLiabilities)
		if err != nil {
			return nil, err
		}
		return (&legPlan{}).debit(line, req.Amount).credit(offset, req.Amount), nil
	}
	offset, err := in.resolver.byCode(ctx, domain.CodeOpeningBalanceOffsetAssets)
	if err != nil {
		return nil, err
	}
	return (&legPlan{}).debit(offset, req.Amount).credit(line, req.Amount), nil
}

// postManual posts caller-supplied legs. They must balance on their own.
func postManual(ctx context.Context, in *postingInput) (*legPlan, error) {
	req := in.req
	if len(req.ManualLegs) < 2 {
		return nil, fmt.Errorf("%w: manual journal needs at least two legs", apperrors.ErrValidation)
	}
	debit, credit := decimal.Zero, decimal.Zero
	plan := &legPlan{}
	for i, leg := range req.ManualLegs {
		if leg.Debit.IsNegative() || leg.Credit.IsNegative() {
			return nil, fmt.Errorf("%w: manual leg %d has a negative amount", apperrors.ErrValidation, i+1)
		}
		if leg.Debit.IsPositive() && leg.Credit.IsPositive() {
			return nil, fmt.Errorf("%w: manual leg %d has both a debit and a credit", apperrors.ErrValidation, i+1)
		}
		cat, err := in.resolver.byID(ctx, leg.CategoryID)
		if err != nil {
			return nil, err
		}
		if leg.Debit.IsPositive() {
			plan.debit(cat, leg.Debit)
		} else {
			plan.credit(cat, leg.Credit)
		}
		debit = debit.Add(leg.Debit)
		credit = credit.Add(leg.Credit)
	}
	if !debit.Equal(credit) {
		return nil, fmt.Errorf("%w: manual legs do not balance (debit %s, credit %s)", apperrors.ErrValidation, debit, credit)
	}
	return plan, nil
}

func requireFlow(req domain.PostingRequest) error {
	if req.Flow != domain.Inflow && req.Flow != domain.Outflow {
		return fmt.Errorf("%w: %s posting needs an INFLOW or OUTFLOW flow", apperrors.ErrValidation, req.ReferenceType)
	}
	return nil
}

func postReconcile(ctx context.Context, in *postingInput) (*legPlan, error) {
	if err := requireFlow(in.req); err != nil {
		return nil, err
	}
	if in.req.Flow == domain.Inflow {
		return postDepositAgainstLine(debitSide)(ctx, in)
	}
	return postDepositAgainstLine(creditSide)(ctx, in)
}

func postReconcileInvoice(ctx context.Context, in *postingInput) (*legPlan, error) {
	req := in.req
	if err := requireFlow(req); err != nil {
		return nil, err
	}
	deposit, err := in.resolver.role(ctx, req, domain.RoleDepositTo, domain.CodeBank)
	if err != nil {
		return nil, err
	}
	defaultParty := domain.CodeAccountsReceivable
	if req.Flow == domain.Outflow {
		defaultParty = domain.CodeAccountsPayable
	}
	party, err := in.resolver.party(ctx, req, defaultParty)
	if err != nil {
		return nil, err
	}
	if req.Flow == domain.Inflow {
		return (&legPlan{}).debit(deposit, req.Amount).partyLeg(party, creditSide, req.Amount), nil
	}
	return (&legPlan{}).partyLeg(party, debitSide, req.Amount).credit(deposit, req.Amount), nil
}

func postPayrollApproved(ctx context.Context, in *postingInput) (*legPlan, error) {
	req := in.req
	salaries, err := in.resolver.role(ctx, req, domain.RoleLine, domain.CodeSalariesAndWages)
	if err != nil {
		return nil, err
	}
	liability, err := in.resolver.party(ctx, req, domain.CodePayrollLiability)
	if err != nil {
		return nil, err
	}
	return (&legPlan{}).debit(salaries, req.Amount).partyLeg(liability, creditSide, req.Amount), nil
}

func postPayrollExplained(ctx context.Context, in *postingInput) (*legPlan, error) {
	req := in.req
	liability, err := in.resolver.party(ctx, req, domain.CodePayrollLiability)
	if err != nil {
		return nil, err
	}
	deposit, err := in.resolver.role(ctx, req, domain.RoleDepositTo, domain.CodeBank)
	if err != nil {
		return nil, err
	}
	return (&legPlan{}).partyLeg(liability, debitSide, req.Amount).credit(deposit, req.Amount), nil
}

// postVatReportFiled closes output and input VAT into VAT payable. Amount is the output VAT
// and InputVatAmount the input VAT of the period; a refund position debits VAT payable.
func postVatReportFiled(ctx context.Context, in *postingInput) (*legPlan, error) {
	req := in.req
	output, err := in.resolver.byCode(ctx, domain.CodeOutputVat)
	if err != nil {
		return nil, err
	}
	input, err := in.resolver.byCode(ctx, domain.CodeInputVat)
	if err != nil {
		return nil, err
	}
	payable, err := in.resolver.byCode(ctx, domain.CodeVatPayable)
	if err != nil {
		return nil, err
	}
	plan := (&legPlan{}).debit(output, req.Amount).credit(input, req.InputVatAmount)
	return plan.credit(payable, req.Amount.Sub(req.InputVatAmount)), nil
}

// postFixedPair books Amount between a well-known category and a second category: either
// another well-known code or, when counterCode is empty, the DEPOSIT_TO hint (bank by default).
// fixedOnCredit puts the well-known category on the credit side.
func postFixedPair(fixedCode, counterCode string, fixedOnCredit bool) postingStrategy {
	return func(ctx context.Context, in *postingInput) (*legPlan, error) {
		req := in.req
		fixed, err := in.resolver.byCode(ctx, fixedCode)
		if err != nil {
			return nil, err
		}
		var counter domain.CategoryWithClassification
		if counterCode != "" {
			counter, err = in.resolver.byCode(ctx, counterCode)
		} else {
			counter, err = in.resolver.role(ctx, req, domain.RoleDepositTo, domain.CodeBank)
		}
		if err != nil {
			return nil, err
		}
		if fixedOnCredit {
			return (&legPlan{}).debit(counter, req.Amount).credit(fixed, req.Amount), nil
		}
		return (&legPlan{}).debit(fixed, req.Amount).credit(counter, req.Amount), nil
	}
}
