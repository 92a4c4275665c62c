package store

import (
	"golang.org/x/crypto/bcrypt"

	"kiosco/internal/domain"
)

// Demo-mode seed data. Mirrors what the remote seed inserts so both backends
// start from the same menu and accounts.

func defaultProducts() []domain.Product {
	return []domain.Product{
		{ID: "ens-mixta", Name: "Ensalada Mixta", Category: domain.CategoryEnsaladas, Price: 850,
			Description: "Lechuga, tomate, zanahoria, cebolla. Personalizable con tus ingredientes favoritos.",
			ImageURL:    "https://images.pexels.com/photos/1213710/pexels-photo-1213710.jpeg",
			Available:   true, Customizable: true,
			Ingredients:   []string{"lechuga", "tomate", "zanahoria", "cebolla", "pepino", "apio", "remolacha"},
			StockQuantity: 20, MinStockAlert: 5},
		{ID: "ens-caesar", Name: "Ensalada Caesar", Category: domain.CategoryEnsaladas, Price: 950,
			Description: "Lechuga romana, crutones, queso parmesano, aderezo caesar.",
			ImageURL:    "https://images.pexels.com/photos/2097090/pexels-photo-2097090.jpeg",
			Available:   true, Customizable: true,
			Ingredients:   []string{"lechuga romana", "crutones", "queso parmesano", "pollo"},
			StockQuantity: 15, MinStockAlert: 5},
		{ID: "tos-jyq", Name: "Tostado de Jamón y Queso", Category: domain.CategoryTostados, Price: 650,
			Description: "Pan tostado con jamón cocido y queso derretido.",
			ImageURL:    "https://images.pexels.com/photos/1647163/pexels-photo-1647163.jpeg",
			Available:   true, StockQuantity: 30, MinStockAlert: 8},
		{ID: "tos-completo", Name: "Tostado Completo", Category: domain.CategoryTostados, Price: 750,
			Description: "Jamón, queso, tomate, lechuga y mayonesa.",
			ImageURL:    "https://images.pexels.com/photos/1647163/pexels-photo-1647163.jpeg",
			Available:   true, StockQuantity: 25, MinStockAlert: 8},
		{ID: "san-milanesa", Name: "Sándwich de Milanesa", Category: domain.CategorySandwiches, Price: 1200,
			Description: "Milanesa de pollo, lechuga, tomate y mayonesa en pan árabe.",
			ImageURL:    "https://images.pexels.com/photos/1647163/pexels-photo-1647163.jpeg",
			Available:   true, StockQuantity: 18, MinStockAlert: 5},
		{ID: "emp-carne", Name: "Empanada de Carne", Category: domain.CategoryEmpanadas, Price: 450,
			Description: "Empanada criolla de carne cortada a cuchillo.",
			ImageURL:    "https://images.pexels.com/photos/6605208/pexels-photo-6605208.jpeg",
			Available:   true, StockQuantity: 40, MinStockAlert: 10},
		{ID: "beb-agua", Name: "Agua Mineral", Category: domain.CategoryBebidas, Price: 300,
			Description: "Agua mineral sin gas 500ml.",
			ImageURL:    "https://images.pexels.com/photos/327090/pexels-photo-327090.jpeg",
			Available:   true, StockQuantity: 50, MinStockAlert: 10},
		{ID: "beb-cola", Name: "Gaseosa Cola", Category: domain.CategoryBebidas, Price: 400,
			Description: "Gaseosa cola 500ml.",
			ImageURL:    "https://images.pexels.com/photos/50593/coca-cola-cold-drink-soft-drink-coke-50593.jpeg",
			Available:   true, StockQuantity: 50, MinStockAlert: 10},
		{ID: "beb-jugo", Name: "Jugo Natural de Naranja", Category: domain.CategoryBebidas, Price: 500,
			Description: "Jugo de naranja exprimido fresco.",
			ImageURL:    "https://images.pexels.com/photos/96974/pexels-photo-96974.jpeg",
			Available:   true, StockQuantity: 12, MinStockAlert: 5},
	}
}

func defaultUsers() []userRecord {
	mk := func(id, email, name string, role domain.Role) userRecord {
		h, _ := bcrypt.GenerateFromPassword([]byte("demo123"), 12)
		return userRecord{
			User:         domain.User{ID: id, Email: email, Name: name, Role: role, IsActive: true},
			PasswordHash: string(h),
		}
	}
	return []userRecord{
		mk("u-basico", "usuario@ciclobasico.com", "Estudiante Ciclo Básico", domain.RoleCicloBasico),
		mk("u-superior", "usuario@ciclosuperior.com", "Estudiante Ciclo Superior", domain.RoleCicloSuperior),
		mk("u-kiosquero", "usuario@kiosquero.com", "Encargado del Kiosco", domain.RoleKiosquero),
		mk("u-admin", "usuario@admin.com", "Administrador", domain.RoleAdmin),
	}
}
