package handler

import (
	"go-itstock/internal/service"
)

func productForm(f formData) (*service.AddProductRequest, error) {
	qty, err := quantity(f.get("quantity"))
	if err != nil {
		return nil, err
	}
	req := &service.AddProductRequest{
		Name:        f.get("name"),
		Quantity:    qty,
		Category:    f.get("category"),
		Description: f.get("description"),
	}
	for _, row := range f.rows("pat") {
		req.UnitTags = append(req.UnitTags, row[0])
	}
	for _, row := range f.rows("unit_tags") {
		req.UnitTags = append(req.UnitTags, row[0])
	}
	return req, nil
}

func withdrawalForm(f formData) (*service.CreateWithdrawalRequest, error) {
	req := &service.CreateWithdrawalRequest{
		Destination: f.get("destino"),
		Ticket:      f.get("chamado"),
	}
	for _, row := range f.rows("produto_id", "quantidade") {
		if row[0] == "" || row[1] == "" {
			continue
		}
		id, err := productID(row[0])
		if err != nil {
			return nil, err
		}
		qty, err := quantity(row[1])
		if err != nil {
			return nil, err
		}
		req.Items = append(req.Items, service.WithdrawalLine{ProductID: id, Quantity: qty})
	}
	return req, nil
}

func distributionForm(f formData) (*service.DistributeRequest, error) {
	req := &service.DistributeRequest{}
	for _, row := range f.rows("unidade_saude", "produto_distribuido", "quantidade_distribuida") {
		qty, err := quantity(row[2])
		if err != nil {
			return nil, err
		}
		req.Distributions = append(req.Distributions, service.DistributionLine{
			DestinationUnit: row[0],
			ProductName:     row[1],
			Quantity:        qty,
		})
	}
	for _, row := range f.rows("produto_devolvido", "quantidade_devolvida") {
		qty, err := quantity(row[1])
		if err != nil {
			return nil, err
		}
		req.Returns = append(req.Returns, service.ReturnLine{ProductName: row[0], Quantity: qty})
	}
	return req, nil
}

func returnForm(f formData) (*service.DirectReturnRequest, error) {
	req := &service.DirectReturnRequest{Origin: f.get("origem")}
	for _, row := range f.rows("produto_id", "quantidade") {
		id, err := productID(row[0])
		if err != nil {
			return nil, err
		}
		qty, err := quantity(row[1])
		if err != nil {
			return nil, err
		}
		req.Items = append(req.Items, service.DirectReturnLine{ProductID: id, Quantity: qty})
	}
	return req, nil
}

func purchaseForm(f formData) ([]service.PurchaseLine, error) {
	lines := []service.PurchaseLine{}
	for _, row := range f.rows("produto_nome", "quantidade", "link_compra") {
		qty, err := quantity(row[1])
		if err != nil {
			return nil, err
		}
		lines = append(lines, service.PurchaseLine{ProductName: row[0], Quantity: qty, Link: row[2]})
	}
	return lines, nil
}
